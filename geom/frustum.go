package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Frustum is six planes Ax + By + Cz + D = 0 with normals pointing inside,
// in order Left, Right, Bottom, Top, Near, Far.
type Frustum [6]mgl64.Vec4

// FrustumFromMatrix extracts the clip planes of a view-projection matrix
// with OpenGL-style -1..1 depth.
func FrustumFromMatrix(vp mgl64.Mat4) Frustum {
	var f Frustum
	r3 := vp.Row(3)
	for i := 0; i < 3; i++ {
		ri := vp.Row(i)
		f[2*i] = r3.Add(ri)
		f[2*i+1] = r3.Sub(ri)
	}

	for i := range f {
		length := f[i].Vec3().Len()
		if length > 0 {
			f[i] = f[i].Mul(1 / length)
		}
	}
	return f
}

// IntersectsBox reports whether any part of b may lie inside f. A box
// straddling a frustum corner can be reported visible when it is not.
func (f Frustum) IntersectsBox(b Box) bool {
	if b.IsEmpty() {
		return false
	}
	for _, plane := range f {
		// Corner furthest along the plane normal; if even that one is
		// behind the plane the whole box is.
		var p mgl64.Vec3
		for a := 0; a < 3; a++ {
			if plane[a] > 0 {
				p[a] = b.Max[a]
			} else {
				p[a] = b.Min[a]
			}
		}
		if plane.Vec3().Dot(p)+plane[3] < 0 {
			return false
		}
	}
	return true
}
