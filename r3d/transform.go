package r3d

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a position/rotation/scale triple that composes into a
// model matrix as Translate * Rotate * Scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(t.Rotation.Normalize().Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Rotate applies an incremental rotation around axis in the transform's
// local space.
func (t *Transform) Rotate(angle float32, axis mgl32.Vec3) {
	if axis.Len() == 0 {
		return
	}
	t.Rotation = t.Rotation.Mul(mgl32.QuatRotate(angle, axis.Normalize())).Normalize()
}
