// Package timeouts defines shared timeout constants used across commands.
// Centralizing these values prevents drift between the daemons and makes
// the durations discoverable.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the device daemon.
const GRPCDial = 2 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
