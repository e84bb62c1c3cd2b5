package geom

import (
	"math"

	"github.com/gekko3d/motionblur/internal/check"
	"github.com/go-gl/mathgl/mgl64"
)

// Corner selects one corner of a Box. Bit 0 picks max X, bit 1 max Y and
// bit 2 max Z; a clear bit picks the min side of that axis.
type Corner uint8

const (
	CornerMaxX Corner = 1 << iota
	CornerMaxY
	CornerMaxZ
)

const (
	BottomLeftFloor  Corner = 0
	BottomRightFloor        = CornerMaxX
	TopLeftFloor            = CornerMaxY
	TopRightFloor           = CornerMaxX | CornerMaxY
	BottomLeftCeil          = CornerMaxZ
	BottomRightCeil         = CornerMaxX | CornerMaxZ
	TopLeftCeil             = CornerMaxY | CornerMaxZ
	TopRightCeil            = CornerMaxX | CornerMaxY | CornerMaxZ

	NumCorners = 8
)

// Box is an axis-aligned box. A box with Min > Max on any axis is empty.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyBox returns the identity of Union: it contains nothing and
// extending it by a point yields that point's box.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

func PointBox(p mgl64.Vec3) Box {
	return Box{Min: p, Max: p}
}

// NewBox returns the smallest box holding both a and b.
func NewBox(a, b mgl64.Vec3) Box {
	return PointBox(a).Extend(b)
}

func (b Box) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

// Extend returns the union of b and the point p.
func (b Box) Extend(p mgl64.Vec3) Box {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

// Union merges two boxes.
func (b Box) Union(o Box) Box {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], o.Min[i])
		b.Max[i] = math.Max(b.Max[i], o.Max[i])
	}
	return b
}

// Intersect clamps b into o. The result is empty when they are disjoint.
func (b Box) Intersect(o Box) Box {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Max(b.Min[i], o.Min[i])
		b.Max[i] = math.Min(b.Max[i], o.Max[i])
	}
	return b
}

func (b Box) ContainsPoint(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Contains reports whether o lies entirely inside b. Every box contains
// the empty box.
func (b Box) Contains(o Box) bool {
	if o.IsEmpty() {
		return true
	}
	return b.ContainsPoint(o.Min) && b.ContainsPoint(o.Max)
}

func (b Box) Overlaps(o Box) bool {
	return !b.Intersect(o).IsEmpty()
}

func (b Box) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// MaxExtent returns the longest side of the box and its axis.
func (b Box) MaxExtent() (float64, int) {
	size := b.Size()
	axis := 0
	if size.Y() > size.X() {
		axis = 1
	}
	if size.Z() > size[axis] {
		axis = 2
	}
	return size[axis], axis
}

// Corner returns the corner selected by c. c must be below NumCorners.
func (b Box) Corner(c Corner) mgl64.Vec3 {
	check.That(c < NumCorners, "geom: box corner %d out of range", c)
	p := b.Min
	if c&CornerMaxX != 0 {
		p[0] = b.Max[0]
	}
	if c&CornerMaxY != 0 {
		p[1] = b.Max[1]
	}
	if c&CornerMaxZ != 0 {
		p[2] = b.Max[2]
	}
	return p
}

func (b Box) Corners() [NumCorners]mgl64.Vec3 {
	var out [NumCorners]mgl64.Vec3
	for c := Corner(0); c < NumCorners; c++ {
		out[c] = b.Corner(c)
	}
	return out
}

// IntersectRay runs the slab test against r over [0, tMax] and returns
// the entry distance.
func (b Box) IntersectRay(r Ray, tMax float64) (float64, bool) {
	tNear, tFar := 0.0, tMax
	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / r.Direction[i]
		t0 := (b.Min[i] - r.Origin[i]) * inv
		t1 := (b.Max[i] - r.Origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = math.Max(tNear, t0)
		tFar = math.Min(tFar, t1)
		if tNear > tFar {
			return 0, false
		}
	}
	return tNear, true
}
