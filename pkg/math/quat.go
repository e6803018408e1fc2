package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// EulerToQuat converts Euler angles in radians to a quaternion.
// The rotation is yaw (Z) * pitch (Y) * roll (X), expanded from the half angles.
func EulerToQuat(roll, pitch, yaw float32) Quat {
	cy := math.Cos(float64(yaw) * 0.5)
	sy := math.Sin(float64(yaw) * 0.5)
	cp := math.Cos(float64(pitch) * 0.5)
	sp := math.Sin(float64(pitch) * 0.5)
	cr := math.Cos(float64(roll) * 0.5)
	sr := math.Sin(float64(roll) * 0.5)

	return Quat{
		W: float32(cy*cp*cr + sy*sp*sr),
		X: float32(cy*cp*sr - sy*sp*cr),
		Y: float32(sy*cp*sr + cy*sp*cr),
		Z: float32(sy*cp*cr - cy*sp*sr),
	}
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.LenSqr())))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// LenSqr returns the squared norm of the raw components.
func (q Quat) LenSqr() float32 {
	return q.Dot(q)
}

// Mul multiplies two quaternions (Hamilton product). q.Mul(other) applies
// other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Conjugate returns the quaternion with its vector part negated.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Inverse returns the conjugate divided by the squared norm.
// The norm comes from the raw components; q is not renormalized first.
func (q Quat) Inverse() Quat {
	return QuatFromMgl(q.Mgl().Inverse())
}

// Rotate rotates v by q using v + 2w(u×v) + 2u×(u×v), where u is the
// vector part. q is expected to be a unit quaternion.
func (q Quat) Rotate(v Vec3) Vec3 {
	return Vec3FromMgl(q.Mgl().Rotate(v.Mgl()))
}

// Mgl converts to the mathgl quaternion type.
func (q Quat) Mgl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

// QuatFromMgl converts from the mathgl quaternion type.
func QuatFromMgl(q mgl32.Quat) Quat {
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// ApproxEqual reports whether every component of q and other is within eps.
func (q Quat) ApproxEqual(other Quat, eps float32) bool {
	return absf(q.X-other.X) <= eps && absf(q.Y-other.Y) <= eps &&
		absf(q.Z-other.Z) <= eps && absf(q.W-other.W) <= eps
}

// ApproxEqual reports whether every component of v and other is within eps.
func (v Vec3) ApproxEqual(other Vec3, eps float32) bool {
	return absf(v.X-other.X) <= eps && absf(v.Y-other.Y) <= eps && absf(v.Z-other.Z) <= eps
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
