package xform

import (
	"github.com/go-gl/mathgl/mgl64"
)

// TRS is a keyframe pose authored as position, rotation and scale.
type TRS struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

func NewTRS() TRS {
	return TRS{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Transform builds the pose without a general matrix inversion.
func (p TRS) Transform() Transform {
	// M = T * R * S
	translate := mgl64.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z())
	rot := p.Rotation.Normalize()
	rotate := rot.Mat4()
	scale := mgl64.Scale3D(p.Scale.X(), p.Scale.Y(), p.Scale.Z())

	// inv(M) = inv(S) * inv(R) * inv(T)
	invScale := mgl64.Scale3D(1.0/p.Scale.X(), 1.0/p.Scale.Y(), 1.0/p.Scale.Z())
	invRotate := rot.Conjugate().Mat4()
	invTranslate := mgl64.Translate3D(-p.Position.X(), -p.Position.Y(), -p.Position.Z())

	return Transform{
		m:    translate.Mul4(rotate).Mul4(scale),
		inv:  invScale.Mul4(invRotate).Mul4(invTranslate),
		kind: Affine,
	}
}
