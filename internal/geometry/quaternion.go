package geometry

import "github.com/go-gl/mathgl/mgl32"

// Quaternion in scalar-first order. Rotation quaternions are expected to be unit length;
// nothing here renormalises them.
type Quaternion struct {
	W, X, Y, Z float32
}

// IdentityQuaternion is the rotation that leaves every vector unchanged
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// PureQuaternion embeds a vector as a quaternion with zero scalar part
func PureQuaternion(v mgl32.Vec3) Quaternion {
	return Quaternion{W: 0, X: v[0], Y: v[1], Z: v[2]}
}

// Mul returns the Hamilton product a * b
func (a Quaternion) Mul(b Quaternion) Quaternion {
	return Quaternion{
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
	}
}

// Inverse returns the conjugate, which is the inverse only for unit quaternions
func (q Quaternion) Inverse() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Vector returns the vector part
func (q Quaternion) Vector() mgl32.Vec3 {
	return mgl32.Vec3{q.X, q.Y, q.Z}
}

// Rotate applies the sandwich q * (0,v) * q^-1 and returns its vector part
func (q Quaternion) Rotate(v mgl32.Vec3) mgl32.Vec3 {
	return q.Mul(PureQuaternion(v)).Mul(q.Inverse()).Vector()
}
