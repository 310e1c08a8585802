package geometry

import "github.com/go-gl/mathgl/mgl32"

// RigidTransform places the points of one source file: rotation first, then translation.
// Values are immutable once built.
type RigidTransform struct {
	Translation mgl32.Vec3
	Rotation    Quaternion
}

func NewRigidTransform(translation mgl32.Vec3, rotation Quaternion) RigidTransform {
	return RigidTransform{
		Translation: translation,
		Rotation:    rotation,
	}
}

func IdentityTransform() RigidTransform {
	return RigidTransform{Rotation: IdentityQuaternion()}
}

// Apply transforms a position
func (t RigidTransform) Apply(v mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Rotate(v).Add(t.Translation)
}

// ApplyRotation transforms a direction, such as a normal, ignoring the translation
func (t RigidTransform) ApplyRotation(v mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Rotate(v)
}

// Inverse returns the transform undoing t, up to float32 rounding
func (t RigidTransform) Inverse() RigidTransform {
	inverseRotation := t.Rotation.Inverse()
	return RigidTransform{
		Translation: inverseRotation.Rotate(t.Translation).Mul(-1),
		Rotation:    inverseRotation,
	}
}
