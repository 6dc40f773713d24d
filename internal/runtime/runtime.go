// Package runtime implements the headset runtime core: it owns the device
// session, caches the acquired system state, and answers property and
// geometry queries from that cache.
//
// The core is call-and-return and performs no internal locking or retries;
// the hosting layer serializes entry and decides retry policy. Blocking
// device calls take the caller's context.
package runtime

import (
	"time"

	"github.com/louisbranch/vergence/internal/device"
	"github.com/louisbranch/vergence/internal/geometry"
	"github.com/louisbranch/vergence/internal/telemetry"
)

// ExtensionHandTracking names the optional hand-tracking capability a host
// can negotiate at construction.
const ExtensionHandTracking = "hand-tracking"

// Options configures a Runtime.
type Options struct {
	// Extensions lists the optional capabilities negotiated by the host.
	Extensions []string
	// Emitter records operational telemetry; nil disables recording.
	Emitter *telemetry.Emitter
}

// Runtime is the context object for one logical headset. It is constructed
// by the host, passed into every operation, and torn down with the process;
// there is no hidden process-wide state.
type Runtime struct {
	svc     device.Service
	emitter *telemetry.Emitter
	opts    Options

	session device.Session

	created     bool
	hmdInfo     device.HmdInfo
	eyeInfo     [2]device.EyeRenderInfo
	floorHeight float64
	projection  geometry.Projection
	viewport    device.ViewportSize

	adapterID     string
	refreshRate   float64
	frameDuration time.Duration
}

// New creates a runtime over the given device service.
func New(svc device.Service, opts Options) *Runtime {
	return &Runtime{
		svc:     svc,
		emitter: opts.Emitter,
		opts:    opts,
	}
}

// Created reports whether a system has been acquired at least once.
func (r *Runtime) Created() bool {
	return r.created
}

func (r *Runtime) extensionEnabled(name string) bool {
	for _, ext := range r.opts.Extensions {
		if ext == name {
			return true
		}
	}
	return false
}
