package geometry

import "math"

// ProjectionMode selects how per-eye frusta are presented to consumers.
type ProjectionMode int

const (
	// ModeNative reports the device's frusta unchanged, canted or not.
	ModeNative ProjectionMode = iota
	// ModeParallel reports corrected forward-facing frusta for consumers
	// that cannot handle canted views.
	ModeParallel
)

// String returns the lowercase mode name.
func (m ProjectionMode) String() string {
	switch m {
	case ModeNative:
		return "native"
	case ModeParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// ParallelVerticalMargin is the extra vertical half-angle added above and
// below each eye in ModeParallel. Per https://risa2000.github.io/hmdgdb,
// parallel projection grows the vertical FOV by 6 degrees.
var ParallelVerticalMargin = DegToRad(6)

// EyeGeometry is the raw per-eye input to the projection computation: the
// head-to-eye orientation and the tangent-space FOV reported by the device.
type EyeGeometry struct {
	Orientation Quat
	Fov         FovPort
}

// ProjectedEye is the derived per-eye output: the effective orientation
// (identity in ModeParallel) and the angular FOV.
type ProjectedEye struct {
	Orientation Quat
	Fov         Fov
}

// Projection is the full derived projection state for a stereo pair.
// CantingAngle is half the angular separation between the two eye
// orientations; it is zero for parallel optics.
type Projection struct {
	CantingAngle float64
	Mode         ProjectionMode
	Eyes         [2]ProjectedEye
}

// ComputeProjection derives canting, mode, and per-eye angular FOV from raw
// eye geometry. Index 0 is the left eye, index 1 the right.
//
// ModeParallel is selected only when the optics are canted and the device
// configuration does not prefer the native FOV. In that mode each eye's
// orientation is replaced by the identity, the horizontal FOV is shifted by
// the canting angle with opposite sign per eye to re-center the frustum, and
// the vertical FOV is expanded by ParallelVerticalMargin on both edges.
func ComputeProjection(eyes [2]EyeGeometry, preferNativeFov bool) Projection {
	p := Projection{
		CantingAngle: eyes[0].Orientation.AngleTo(eyes[1].Orientation) / 2,
	}
	if p.CantingAngle != 0 && !preferNativeFov {
		p.Mode = ModeParallel
	}

	for i := range eyes {
		eye := ProjectedEye{
			Orientation: eyes[i].Orientation,
			Fov:         eyes[i].Fov.Angles(),
		}
		if p.Mode == ModeParallel {
			eye.Orientation = QuatIdentity()

			shift := p.CantingAngle
			if i == 0 {
				shift = -shift
			}
			eye.Fov.AngleLeft += shift
			eye.Fov.AngleRight += shift

			eye.Fov.AngleUp += ParallelVerticalMargin
			eye.Fov.AngleDown -= ParallelVerticalMargin
		}
		p.Eyes[i] = eye
	}
	return p
}

// SizingFov returns the single representative tangent-space FOV used to size
// render targets, derived from the raw left-eye FOV. When parallel is set the
// horizontal tangents are widened by the canting angle and the vertical
// tangents by ParallelVerticalMargin, so the target still covers the shifted
// and expanded frusta of ModeParallel.
func SizingFov(left FovPort, cantingAngle float64, parallel bool) FovPort {
	if !parallel {
		return left
	}
	return FovPort{
		LeftTan:  math.Tan(math.Atan(left.LeftTan) + cantingAngle),
		RightTan: math.Tan(math.Atan(left.RightTan) - cantingAngle),
		UpTan:    math.Tan(math.Atan(left.UpTan) + ParallelVerticalMargin),
		DownTan:  math.Tan(math.Atan(left.DownTan) + ParallelVerticalMargin),
	}
}

// SizingFov returns the representative sizing FOV for p given the raw
// left-eye tangents it was computed from.
func (p Projection) SizingFov(left FovPort) FovPort {
	return SizingFov(left, p.CantingAngle, p.Mode == ModeParallel)
}
