package match

import "math"

// Vec3 is a point in world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceSquared avoids the sqrt for range checks
func (v Vec3) DistanceSquared(o Vec3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the euclidean distance to o.
func (v Vec3) Distance(o Vec3) float64 {
	return math.Sqrt(v.DistanceSquared(o))
}

// BlockPos is an integer block coordinate.
type BlockPos struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Center returns the world-space center of the block.
func (b BlockPos) Center() Vec3 {
	return Vec3{X: float64(b.X) + 0.5, Y: float64(b.Y) + 0.5, Z: float64(b.Z) + 0.5}
}

// BlockAt truncates a world position to its containing block.
func BlockAt(v Vec3) BlockPos {
	return BlockPos{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y)), Z: int(math.Floor(v.Z))}
}
