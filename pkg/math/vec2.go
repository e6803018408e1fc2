// Package math provides the vector and quaternion types used by the skeletal pipeline.
package math

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// FlipV returns the coordinate with the V axis inverted (v' = 1 - v).
func (v Vec2) FlipV() Vec2 {
	return Vec2{v.X, 1 - v.Y}
}
