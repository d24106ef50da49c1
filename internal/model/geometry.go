package model

import "math"

// Vector3 is a point or rotation in world space
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the straight-line distance between two points
func (v Vector3) DistanceTo(o Vector3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// CameraPosition is a fixed viewpoint shown while an actor is not yet playing
type CameraPosition struct {
	Position Vector3
	Rotation Vector3
}
