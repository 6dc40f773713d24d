package geometry

import "math"

// Quat is a rotation quaternion (x, y, z, w).
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// IsIdentity reports whether q is exactly the identity rotation.
func (q Quat) IsIdentity() bool {
	return q == QuatIdentity()
}

// Dot returns the four-component dot product of q and other.
func (q Quat) Dot(other Quat) float64 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Norm returns the Euclidean length of q.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.Dot(q))
}

// Normalize returns q scaled to unit length. The zero quaternion normalizes
// to the identity so that degenerate device data cannot produce NaNs.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n == 0 {
		return QuatIdentity()
	}
	return Quat{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

// AngleTo returns the rotation angle in radians between q and other,
// in [0, π]. Both quaternions are normalized first; q and -q describe the
// same rotation, so the result is independent of sign.
func (q Quat) AngleTo(other Quat) float64 {
	d := math.Abs(q.Normalize().Dot(other.Normalize()))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// AxisAngle returns the quaternion rotating by angle radians around axis.
// The axis is normalized; a zero axis yields the identity.
func AxisAngle(axis Vec3, angle float64) Quat {
	n := axis.Norm()
	if n == 0 {
		return QuatIdentity()
	}
	s := math.Sin(angle/2) / n
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math.Cos(angle / 2),
	}
}
