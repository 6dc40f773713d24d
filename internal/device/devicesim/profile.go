package devicesim

import (
	"math"

	"github.com/louisbranch/vergence/internal/geometry"
)

// Profile is the static personality of a simulated headset: identity,
// panel geometry, and optics. The left-eye FOV is given directly; the right
// eye mirrors it horizontally.
type Profile struct {
	Manufacturer  string
	ProductName   string
	VendorID      uint32
	ProductID     uint32
	FirmwareMajor uint32
	FirmwareMinor uint32

	// Per-eye panel pixels.
	ResolutionWidth  uint32
	ResolutionHeight uint32

	RefreshRate float64
	AdapterID   string

	// CantingDegrees is the outward yaw of each panel. Zero means the
	// panels face straight ahead.
	CantingDegrees float64

	// EyeFov is the left-eye native FOV in tangent space.
	EyeFov geometry.FovPort

	// IPD is the lens separation in meters.
	IPD float64

	// EyeHeight seeds the eye_height float config, meters.
	EyeHeight float64
}

// ProfileCanted is a wide-FOV headset with toed-in panels, the interesting
// case for the parallel-projection correction.
func ProfileCanted() Profile {
	return Profile{
		Manufacturer:     "Acme Optics",
		ProductName:      "Panorama 8K",
		VendorID:         0x2c87,
		ProductID:        0x8001,
		FirmwareMajor:    2,
		FirmwareMinor:    14,
		ResolutionWidth:  3840,
		ResolutionHeight: 2160,
		RefreshRate:      90,
		AdapterID:        "sim-adapter-0",
		CantingDegrees:   10,
		EyeFov: geometry.FovPort{
			UpTan:    math.Tan(geometry.DegToRad(45)),
			DownTan:  math.Tan(geometry.DegToRad(47)),
			LeftTan:  math.Tan(geometry.DegToRad(55)),
			RightTan: math.Tan(geometry.DegToRad(42)),
		},
		IPD:       0.063,
		EyeHeight: 1.7,
	}
}

// ProfileParallel is a conventional headset with forward-facing panels.
func ProfileParallel() Profile {
	return Profile{
		Manufacturer:     "Acme Optics",
		ProductName:      "Courier 4K",
		VendorID:         0x2c87,
		ProductID:        0x4100,
		FirmwareMajor:    1,
		FirmwareMinor:    9,
		ResolutionWidth:  1832,
		ResolutionHeight: 1920,
		RefreshRate:      72,
		AdapterID:        "sim-adapter-0",
		CantingDegrees:   0,
		EyeFov: geometry.FovPort{
			UpTan:    math.Tan(geometry.DegToRad(41)),
			DownTan:  math.Tan(geometry.DegToRad(43)),
			LeftTan:  math.Tan(geometry.DegToRad(44)),
			RightTan: math.Tan(geometry.DegToRad(37)),
		},
		IPD:       0.0635,
		EyeHeight: 1.6,
	}
}
