// Package geometry derives angular field-of-view and projection parameters
// from raw per-eye headset geometry.
//
// The package is pure math: it has no device or transport dependencies, and
// every function is deterministic in its inputs. The runtime feeds it the
// per-eye orientations and tangent-space FOV reported by the device service
// and caches the resulting Projection.
package geometry
