package device

import "github.com/louisbranch/vergence/internal/geometry"

// EyeRenderInfo is the per-eye geometry reported by the vendor service:
// where the eye sits relative to the head and what it can see.
type EyeRenderInfo struct {
	HmdToEyePose geometry.Pose    `json:"hmd_to_eye_pose"`
	Fov          geometry.FovPort `json:"fov"`
}

// DisplayInfo describes the display an eye is driven by.
type DisplayInfo struct {
	// AdapterID is the opaque graphics-adapter identity (LUID on Windows).
	AdapterID   string  `json:"adapter_id"`
	RefreshRate float64 `json:"refresh_rate"`
}

// ViewportSize is a render-target size in pixels.
type ViewportSize struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}
