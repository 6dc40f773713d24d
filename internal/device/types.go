package device

// Eye identifies one display of a stereo pair.
type Eye int

const (
	// EyeLeft is the left display, index 0 everywhere.
	EyeLeft Eye = 0
	// EyeRight is the right display, index 1 everywhere.
	EyeRight Eye = 1

	// EyeCount is the fixed number of eyes per device.
	EyeCount = 2
)

// String returns the lowercase eye name.
func (e Eye) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether e is one of the two stereo eyes.
func (e Eye) Valid() bool {
	return e == EyeLeft || e == EyeRight
}

// TrackingOrigin selects the reference height for reported poses.
type TrackingOrigin int

const (
	// TrackingOriginEyeLevel reports poses relative to the headset's
	// resting eye height.
	TrackingOriginEyeLevel TrackingOrigin = iota
	// TrackingOriginFloorLevel reports poses relative to the calibrated
	// floor.
	TrackingOriginFloorLevel
)

// Valid reports whether o is a known tracking origin.
func (o TrackingOrigin) Valid() bool {
	return o == TrackingOriginEyeLevel || o == TrackingOriginFloorLevel
}

// String returns the lowercase origin name.
func (o TrackingOrigin) String() string {
	switch o {
	case TrackingOriginEyeLevel:
		return "eye-level"
	case TrackingOriginFloorLevel:
		return "floor-level"
	default:
		return "unknown"
	}
}

// HmdStatus is the live availability report of the vendor service and the
// headset it manages.
type HmdStatus struct {
	ServiceReady bool `json:"service_ready"`
	HmdPresent   bool `json:"hmd_present"`
	HmdMounted   bool `json:"hmd_mounted"`
	IsVisible    bool `json:"is_visible"`
	DisplayLost  bool `json:"display_lost"`
	ShouldQuit   bool `json:"should_quit"`
}

// Available reports whether the headset can be acquired right now.
func (s HmdStatus) Available() bool {
	return s.ServiceReady && s.HmdPresent
}

// HmdInfo is the immutable identity of the connected headset. The runtime
// replaces it wholesale on every acquisition; it is never mutated in place.
type HmdInfo struct {
	VendorID         uint32 `json:"vendor_id"`
	ProductID        uint32 `json:"product_id"`
	Manufacturer     string `json:"manufacturer"`
	ProductName      string `json:"product_name"`
	SerialNumber     string `json:"serial_number"`
	FirmwareMajor    uint32 `json:"firmware_major"`
	FirmwareMinor    uint32 `json:"firmware_minor"`
	ResolutionWidth  uint32 `json:"resolution_width"`
	ResolutionHeight uint32 `json:"resolution_height"`
}
