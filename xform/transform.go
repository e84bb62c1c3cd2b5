package xform

import (
	"math"

	"github.com/gekko3d/motionblur/geom"
	"github.com/gekko3d/motionblur/internal/check"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind tags a transform as affine (bottom row 0 0 0 1) or projective.
type Kind uint8

const (
	Affine Kind = iota
	Projective
)

func (k Kind) String() string {
	switch k {
	case Affine:
		return "affine"
	case Projective:
		return "projective"
	default:
		return "unknown"
	}
}

// Transform is a 3D spatial mapping that keeps its forward and inverse
// homogeneous matrices in sync: m * inv is the identity for every value
// built through this package, except FromPair and FromProjectivePair
// which trust the caller.
//
// A Transform is a plain value. The in-place mutators must only be used
// by its sole owner before it is shared.
type Transform struct {
	m    mgl64.Mat4
	inv  mgl64.Mat4
	kind Kind
}

func Identity() Transform {
	return IdentityOf(Affine)
}

func IdentityOf(kind Kind) Transform {
	return Transform{m: mgl64.Ident4(), inv: mgl64.Ident4(), kind: kind}
}

// FromMatrix builds an affine transform from m and inverts it.
// The result is undefined if m is singular.
func FromMatrix(m mgl64.Mat4) Transform {
	if check.Enabled {
		check.That(m.Row(3) == mgl64.Vec4{0, 0, 0, 1}, "xform: affine matrix has bottom row %v", m.Row(3))
	}
	return newInverted(m, Affine)
}

// FromProjective builds a projective transform from m and inverts it.
// The result is undefined if m is singular.
func FromProjective(m mgl64.Mat4) Transform {
	return newInverted(m, Projective)
}

// FromLinear builds an affine transform with linear block l and no
// translation. The result is undefined if l is singular.
func FromLinear(l mgl64.Mat3) Transform {
	if check.Enabled {
		check.That(l.Det() != 0, "xform: singular linear block %v", l)
	}
	return Transform{m: l.Mat4(), inv: l.Inv().Mat4(), kind: Affine}
}

// FromPair trusts that inv is the inverse of m and does not check it.
func FromPair(m, inv mgl64.Mat4) Transform {
	return Transform{m: m, inv: inv, kind: Affine}
}

func FromProjectivePair(m, inv mgl64.Mat4) Transform {
	return Transform{m: m, inv: inv, kind: Projective}
}

func newInverted(m mgl64.Mat4, kind Kind) Transform {
	if check.Enabled {
		check.That(m.Det() != 0, "xform: singular matrix %v", m)
	}
	return Transform{m: m, inv: m.Inv(), kind: kind}
}

// Translation returns a pure translation by v.
func Translation(v mgl64.Vec3) Transform {
	t := Identity()
	t.Translate(v)
	return t
}

// Scaling returns a pure axis scale by v. Every component must be non-zero.
func Scaling(v mgl64.Vec3) Transform {
	t := Identity()
	t.Scale(v)
	return t
}

// Rotation returns a pure rotation by the unit quaternion q.
func Rotation(q mgl64.Quat) Transform {
	t := Identity()
	t.Rotate(q)
	return t
}

// LookAt returns the right-handed camera-to-world frame for a camera at
// camera looking toward focus. The camera looks down its local -Z axis.
func LookAt(camera, focus, up mgl64.Vec3) Transform {
	z := camera.Sub(focus).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	m := mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), camera.Vec4(1))

	// The frame is orthonormal, so its inverse is the transposed basis
	// applied after moving the camera back to the origin.
	inv := mgl64.Mat3FromCols(x, y, z).Transpose().Mat4()
	back := inv.Mat3().Mul3x1(camera)
	inv.SetCol(3, mgl64.Vec4{-back.X(), -back.Y(), -back.Z(), 1})
	return Transform{m: m, inv: inv, kind: Affine}
}

func (t Transform) Matrix() mgl64.Mat4        { return t.m }
func (t Transform) InverseMatrix() mgl64.Mat4 { return t.inv }
func (t Transform) Kind() Kind                { return t.kind }

// Linear returns the upper-left 3x3 block of the forward matrix.
func (t Transform) Linear() mgl64.Mat3 {
	return t.m.Mat3()
}

// Offset returns the translation column of the forward matrix.
func (t Transform) Offset() mgl64.Vec3 {
	return t.m.Col(3).Vec3()
}

// SwapsChirality reports whether the linear block flips handedness.
func (t Transform) SwapsChirality() bool {
	return t.m.Mat3().Det() < 0
}

// Equal reports whether both transforms have the same kind and exactly
// equal forward matrices.
func (t Transform) Equal(o Transform) bool {
	return t.kind == o.kind && t.m == o.m
}

func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	return t.m.ApproxEqualThreshold(o.m, eps) && t.inv.ApproxEqualThreshold(o.inv, eps)
}

// Translate appends a translation: points are translated by v before
// the existing mapping is applied.
func (t *Transform) Translate(v mgl64.Vec3) *Transform {
	t.m = t.m.Mul4(mgl64.Translate3D(v.X(), v.Y(), v.Z()))
	t.inv = mgl64.Translate3D(-v.X(), -v.Y(), -v.Z()).Mul4(t.inv)
	return t
}

// Scale appends an axis scale. A zero component is undefined.
func (t *Transform) Scale(v mgl64.Vec3) *Transform {
	check.That(v.X() != 0 && v.Y() != 0 && v.Z() != 0, "xform: zero scale component in %v", v)
	t.m = t.m.Mul4(mgl64.Scale3D(v.X(), v.Y(), v.Z()))
	t.inv = mgl64.Scale3D(1/v.X(), 1/v.Y(), 1/v.Z()).Mul4(t.inv)
	return t
}

// Rotate appends a rotation by q, which is normalized first.
func (t *Transform) Rotate(q mgl64.Quat) *Transform {
	r := q.Normalize().Mat4()
	t.m = t.m.Mul4(r)
	t.inv = r.Transpose().Mul4(t.inv)
	return t
}

// Append composes o onto t in place, so that o is applied first.
// Appending a projective transform promotes t to projective.
func (t *Transform) Append(o Transform) *Transform {
	t.m = t.m.Mul4(o.m)
	t.inv = o.inv.Mul4(t.inv)
	t.kind = promote(t.kind, o.kind)
	return t
}

// Compose returns the transform that applies b first and then a.
func Compose(a, b Transform) Transform {
	return Transform{
		m:    a.m.Mul4(b.m),
		inv:  b.inv.Mul4(a.inv),
		kind: promote(a.kind, b.kind),
	}
}

func promote(a, b Kind) Kind {
	if a == Projective || b == Projective {
		return Projective
	}
	return Affine
}

// Invert swaps the two matrices; nothing is recomputed.
func (t Transform) Invert() Transform {
	return Transform{m: t.inv, inv: t.m, kind: t.kind}
}

func (t Transform) ApplyPoint(p mgl64.Vec3) mgl64.Vec3 {
	h := t.m.Mul4x1(p.Vec4(1))
	if t.kind == Projective {
		return h.Vec3().Mul(1 / h.W())
	}
	return h.Vec3()
}

// ApplyVector uses only the linear block, so translation has no effect.
func (t Transform) ApplyVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.m.Mat3().Mul3x1(v)
}

// ApplyNormal multiplies by the transposed linear block of the inverse
// matrix. This keeps normals perpendicular to surfaces under non-uniform
// scale, which the forward block does not.
func (t Transform) ApplyNormal(n mgl64.Vec3) mgl64.Vec3 {
	return t.inv.Mat3().Transpose().Mul3x1(n)
}

func (t Transform) ApplyRay(r geom.Ray) geom.Ray {
	return geom.Ray{Origin: t.ApplyPoint(r.Origin), Direction: t.ApplyVector(r.Direction)}
}

// ApplyRayBundle transforms the primary ray and every offset ray with the
// same mapping.
func (t Transform) ApplyRayBundle(rb geom.RayBundle) geom.RayBundle {
	out := geom.RayBundle{Primary: t.ApplyRay(rb.Primary)}
	if len(rb.Offsets) > 0 {
		out.Offsets = make([]geom.Ray, len(rb.Offsets))
		for i, r := range rb.Offsets {
			out.Offsets[i] = t.ApplyRay(r)
		}
	}
	return out
}

// ApplyBox returns the box around the eight transformed corners of b.
func (t Transform) ApplyBox(b geom.Box) geom.Box {
	if b.IsEmpty() {
		return b
	}
	out := geom.EmptyBox()
	for _, c := range b.Corners() {
		out = out.Extend(t.ApplyPoint(c))
	}
	return out
}

// Residual returns the largest absolute entry of m*inv - I. It is zero
// for an exact pair and is meant for diagnostics and tests.
func (t Transform) Residual() float64 {
	d := t.m.Mul4(t.inv).Sub(mgl64.Ident4())
	worst := 0.0
	for _, v := range d {
		worst = math.Max(worst, math.Abs(v))
	}
	return worst
}
