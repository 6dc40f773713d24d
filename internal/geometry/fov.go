package geometry

import "math"

// FovPort describes a field of view as tangents of the half-angles from the
// optical axis, the representation used by projection-matrix construction
// and by the device service. All four values are positive for any usable
// display.
type FovPort struct {
	UpTan    float64 `json:"up_tan"`
	DownTan  float64 `json:"down_tan"`
	LeftTan  float64 `json:"left_tan"`
	RightTan float64 `json:"right_tan"`
}

// Fov describes a field of view as signed half-angles in radians. Left and
// down are negative-going, matching the view-frustum convention consumed by
// renderers.
type Fov struct {
	AngleLeft  float64 `json:"angle_left"`
	AngleRight float64 `json:"angle_right"`
	AngleUp    float64 `json:"angle_up"`
	AngleDown  float64 `json:"angle_down"`
}

// Angles converts tangent-space boundaries to signed half-angles.
func (p FovPort) Angles() Fov {
	return Fov{
		AngleLeft:  -math.Atan(p.LeftTan),
		AngleRight: math.Atan(p.RightTan),
		AngleUp:    math.Atan(p.UpTan),
		AngleDown:  -math.Atan(p.DownTan),
	}
}

// Tangents converts signed half-angles back to tangent-space boundaries.
// It is the inverse of FovPort.Angles for angles in (-π/2, π/2).
func (f Fov) Tangents() FovPort {
	return FovPort{
		UpTan:    math.Tan(f.AngleUp),
		DownTan:  math.Tan(-f.AngleDown),
		LeftTan:  math.Tan(-f.AngleLeft),
		RightTan: math.Tan(f.AngleRight),
	}
}

// Horizontal returns the total horizontal span of f in radians.
func (f Fov) Horizontal() float64 {
	return f.AngleRight - f.AngleLeft
}

// Vertical returns the total vertical span of f in radians.
func (f Fov) Vertical() float64 {
	return f.AngleUp - f.AngleDown
}

// DegToRad converts degrees to radians.
func DegToRad(d float64) float64 {
	return d * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(r float64) float64 {
	return r * 180 / math.Pi
}
