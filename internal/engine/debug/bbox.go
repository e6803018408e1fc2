// Package debug provides debug visualization utilities.
package debug

// BoundsSegments returns the 12 edges of an axis-aligned box as line segments.
func BoundsSegments(lo, hi [3]float32) [][2][3]float32 {
	corner := func(x, y, z int) [3]float32 {
		pick := func(axis, upper int) float32 {
			if upper == 1 {
				return hi[axis]
			}
			return lo[axis]
		}
		return [3]float32{pick(0, x), pick(1, y), pick(2, z)}
	}

	segments := make([][2][3]float32, 0, 12)
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			// edges along X, Y and Z
			segments = append(segments,
				[2][3]float32{corner(0, a, b), corner(1, a, b)},
				[2][3]float32{corner(a, 0, b), corner(a, 1, b)},
				[2][3]float32{corner(a, b, 0), corner(a, b, 1)},
			)
		}
	}
	return segments
}

// PadBounds expands a box by padding on all sides, swapping inverted axes first.
func PadBounds(lo, hi [3]float32, padding float32) ([3]float32, [3]float32) {
	for i := 0; i < 3; i++ {
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
		lo[i] -= padding
		hi[i] += padding
	}
	return lo, hi
}
