package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// TelemetryEvent is one operational observation recorded by the runtime:
// an acquisition, a device RPC, a snapshot collection. Seq is assigned by
// the store on append.
type TelemetryEvent struct {
	Seq            uint64         `json:"seq"`
	Timestamp      time.Time      `json:"timestamp"`
	EventName      string         `json:"event_name"`
	Severity       string         `json:"severity"`
	SystemSerial   string         `json:"system_serial,omitempty"`
	SessionID      string         `json:"session_id,omitempty"`
	TraceID        string         `json:"trace_id,omitempty"`
	SpanID         string         `json:"span_id,omitempty"`
	Attributes     map[string]any `json:"attributes,omitempty"`
	AttributesJSON []byte         `json:"-"`
}

// TelemetryStore persists operational telemetry records for audits and
// incident analysis.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
	ListTelemetryEvents(ctx context.Context, afterSeq uint64, limit int) ([]TelemetryEvent, error)
}
