// Package sqlite provides the telemetry persistence adapter backed by SQLite.
//
// The store holds operational events only; runtime state lives in the
// runtime cache and is never persisted here.
package sqlite
