package device

import (
	"context"
	"errors"

	"github.com/louisbranch/vergence/internal/geometry"
)

// ErrUnavailable indicates the vendor device service is not running or not
// reachable. A missing headset and a stopped service are indistinguishable
// to callers.
var ErrUnavailable = errors.New("device service unavailable")

// Service opens sessions against a vendor headset service.
type Service interface {
	CreateSession(ctx context.Context) (Session, error)
}

// Session is a live connection to the vendor service. Methods block until
// the device answers; cancellation comes from the caller's context.
type Session interface {
	// HmdStatus reports live service and headset availability.
	HmdStatus(ctx context.Context) (HmdStatus, error)

	// HmdInfo reports the identity of the connected headset.
	HmdInfo(ctx context.Context) (HmdInfo, error)

	// EyeRenderInfo reports the pose and FOV of one eye.
	EyeRenderInfo(ctx context.Context, eye Eye) (EyeRenderInfo, error)

	// DisplayInfo reports the display adapter and refresh rate for one eye.
	DisplayInfo(ctx context.Context, eye Eye) (DisplayInfo, error)

	// FloatConfig reads a float config value, returning def when the key
	// is unset.
	FloatConfig(ctx context.Context, key string, def float64) (float64, error)

	// IntConfig reads an integer config value, returning def when the key
	// is unset.
	IntConfig(ctx context.Context, key string, def int64) (int64, error)

	// SetTrackingOrigin selects the pose reference height for the session.
	SetTrackingOrigin(ctx context.Context, origin TrackingOrigin) error

	// FovTextureSize recommends a render-target size covering fov at the
	// given pixel density.
	FovTextureSize(ctx context.Context, eye Eye, fov geometry.FovPort, density float64) (ViewportSize, error)

	// Close releases the session. The session is unusable afterwards.
	Close(ctx context.Context) error
}
