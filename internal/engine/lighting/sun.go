// Package lighting computes the directional light used by the model shader.
package lighting

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts longitude (rotation around Y) and latitude (elevation
// above the horizon) in degrees to a unit vector pointing toward the sun.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lon := float64(mgl32.DegToRad(longitude))
	lat := float64(mgl32.DegToRad(latitude))

	return mgl32.Vec3{
		float32(gomath.Cos(lat) * gomath.Sin(lon)),
		float32(gomath.Sin(lat)),
		float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
}

// LightDirection returns the direction light travels from the sun.
func LightDirection(longitude, latitude float32) mgl32.Vec3 {
	return SunDirection(longitude, latitude).Mul(-1)
}
