package runtime

import (
	"fmt"

	apperrors "github.com/louisbranch/vergence/internal/errors"
)

// systemNameSuffix is appended to the reported system name. Third-party
// tooling pattern-matches on it to recognize this runtime, so it must not
// change.
const systemNameSuffix = " (aapvr)"

// Graphics limits reported to all callers, independent of the device.
const (
	maxLayerCount           = 16
	maxSwapchainImageWidth  = 16384
	maxSwapchainImageHeight = 16384
)

// SystemProperties is the capability report for the acquired system.
type SystemProperties struct {
	SystemID   SystemID `json:"system_id"`
	VendorID   uint32   `json:"vendor_id"`
	SystemName string   `json:"system_name"`

	OrientationTracking bool `json:"orientation_tracking"`
	PositionTracking    bool `json:"position_tracking"`

	MaxLayerCount           uint32 `json:"max_layer_count"`
	MaxSwapchainImageWidth  uint32 `json:"max_swapchain_image_width"`
	MaxSwapchainImageHeight uint32 `json:"max_swapchain_image_height"`
}

// SystemPropertiesExtension is one typed block in an extension query. The
// reporter fills the variants it recognizes and leaves the rest untouched.
type SystemPropertiesExtension interface {
	isSystemPropertiesExtension()
}

// HandTrackingProperties reports whether hand tracking is usable. It is
// filled only when the hand-tracking extension was negotiated.
type HandTrackingProperties struct {
	SupportsHandTracking bool `json:"supports_hand_tracking"`
}

func (*HandTrackingProperties) isSystemPropertiesExtension() {}

// SystemProperties reports identity, tracking capabilities, and graphics
// limits for the acquired system. Extension blocks are filled in place;
// unrecognized variants are skipped, never rejected. The query is read-only.
func (r *Runtime) SystemProperties(sys SystemID, exts ...SystemPropertiesExtension) (SystemProperties, error) {
	if !r.created {
		return SystemProperties{}, ErrSystemNotCreated
	}
	if sys != systemID {
		return SystemProperties{}, apperrors.WithMetadata(apperrors.CodeSystemInvalid,
			"unknown system handle", map[string]string{"system_id": fmt.Sprintf("%d", sys)})
	}

	props := SystemProperties{
		SystemID:                systemID,
		VendorID:                r.hmdInfo.VendorID,
		SystemName:              r.hmdInfo.ProductName + systemNameSuffix,
		OrientationTracking:     true,
		PositionTracking:        true,
		MaxLayerCount:           maxLayerCount,
		MaxSwapchainImageWidth:  maxSwapchainImageWidth,
		MaxSwapchainImageHeight: maxSwapchainImageHeight,
	}

	for _, ext := range exts {
		switch e := ext.(type) {
		case *HandTrackingProperties:
			e.SupportsHandTracking = r.extensionEnabled(ExtensionHandTracking)
		}
	}
	return props, nil
}
