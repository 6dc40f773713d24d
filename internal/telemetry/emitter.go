// Package telemetry records operational events emitted by the runtime.
//
// Events are durable observations (acquisitions, device RPCs, snapshot
// collections) appended to a storage.TelemetryStore. They are distinct from
// traces: traces go through OpenTelemetry, events are kept locally for
// audits and incident analysis. When a span is active, the emitter stamps
// its trace and span ids onto the event so the two can be joined.
package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/vergence/internal/storage"
	"go.opentelemetry.io/otel/trace"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
// A zero timestamp is filled from the clock; empty trace/span ids are
// filled from the active span, if any.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	if evt.TraceID == "" {
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			evt.TraceID = sc.TraceID().String()
			evt.SpanID = sc.SpanID().String()
		}
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}
