package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// RayBundle is a primary ray plus auxiliary rays offset from it, as used
// for ray differentials. Offsets are defined relative to Primary and are
// never treated as independent trajectories.
type RayBundle struct {
	Primary Ray
	Offsets []Ray
}

// Scale moves every offset ray toward (s < 1) or away from (s > 1) the
// primary ray, in both origin and direction. The bundle is updated in
// place and returned.
func (rb *RayBundle) Scale(s float64) *RayBundle {
	p := rb.Primary
	for i, o := range rb.Offsets {
		rb.Offsets[i] = Ray{
			Origin:    p.Origin.Add(o.Origin.Sub(p.Origin).Mul(s)),
			Direction: p.Direction.Add(o.Direction.Sub(p.Direction).Mul(s)),
		}
	}
	return rb
}

// Perpendicular returns two vectors orthogonal to the unit vector v such
// that v0 x v1 == v.
func Perpendicular(v mgl64.Vec3) (v0, v1 mgl64.Vec3) {
	if math.Abs(v.X()) > math.Abs(v.Y()) {
		f := 1 / math.Sqrt(v.X()*v.X()+v.Z()*v.Z())
		v0 = mgl64.Vec3{-v.Z() * f, 0, v.X() * f}
	} else {
		f := 1 / math.Sqrt(v.Y()*v.Y()+v.Z()*v.Z())
		v0 = mgl64.Vec3{0, v.Z() * f, -v.Y() * f}
	}
	return v0, v.Cross(v0)
}
