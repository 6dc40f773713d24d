package geometry

import "math"

// Vec3 is a 3-component vector in meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Pose combines an orientation with a position offset.
type Pose struct {
	Orientation Quat `json:"orientation"`
	Position    Vec3 `json:"position"`
}
