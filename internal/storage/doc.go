// Package storage defines the persistence interfaces for the runtime.
//
// The runtime core itself holds no durable state; the only persisted records
// are operational telemetry events. Implementations of these interfaces live
// in subpackages (sqlite).
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
package storage
