package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyBoxIsUnionIdentity(t *testing.T) {
	e := EmptyBox()
	require.True(t, e.IsEmpty())

	b := NewBox(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{-1, 0, 5})
	assert.Equal(t, b, e.Union(b))
	assert.Equal(t, b, b.Union(e))
	assert.Equal(t, PointBox(mgl64.Vec3{4, 4, 4}), e.Extend(mgl64.Vec3{4, 4, 4}))
}

func TestNewBoxOrdersCorners(t *testing.T) {
	b := NewBox(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{-1, 0, 5})
	assert.Equal(t, mgl64.Vec3{-1, 0, 3}, b.Min)
	assert.Equal(t, mgl64.Vec3{1, 2, 5}, b.Max)
	assert.False(t, b.IsEmpty())
}

func TestUnionAndIntersect(t *testing.T) {
	a := Box{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}}
	b := Box{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{3, 3, 3}}

	u := a.Union(b)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, u.Min)
	assert.Equal(t, mgl64.Vec3{3, 3, 3}, u.Max)

	i := a.Intersect(b)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, i.Min)
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, i.Max)
	assert.True(t, a.Overlaps(b))

	far := Box{Min: mgl64.Vec3{10, 10, 10}, Max: mgl64.Vec3{11, 11, 11}}
	assert.True(t, a.Intersect(far).IsEmpty())
	assert.False(t, a.Overlaps(far))
}

func TestContains(t *testing.T) {
	outer := Box{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}
	inner := Box{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{0.5, 0.5, 0.5}}

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.True(t, inner.Contains(EmptyBox()))
	assert.True(t, outer.ContainsPoint(mgl64.Vec3{1, -1, 0}))
	assert.False(t, outer.ContainsPoint(mgl64.Vec3{1.01, 0, 0}))
}

func TestCornerFlags(t *testing.T) {
	b := Box{Min: mgl64.Vec3{0, 10, 20}, Max: mgl64.Vec3{1, 11, 21}}

	tests := []struct {
		name   string
		corner Corner
		want   mgl64.Vec3
	}{
		{"BottomLeftFloor", BottomLeftFloor, mgl64.Vec3{0, 10, 20}},
		{"BottomRightFloor", BottomRightFloor, mgl64.Vec3{1, 10, 20}},
		{"TopLeftFloor", TopLeftFloor, mgl64.Vec3{0, 11, 20}},
		{"TopRightFloor", TopRightFloor, mgl64.Vec3{1, 11, 20}},
		{"BottomLeftCeil", BottomLeftCeil, mgl64.Vec3{0, 10, 21}},
		{"BottomRightCeil", BottomRightCeil, mgl64.Vec3{1, 10, 21}},
		{"TopLeftCeil", TopLeftCeil, mgl64.Vec3{0, 11, 21}},
		{"TopRightCeil", TopRightCeil, mgl64.Vec3{1, 11, 21}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Corner(tt.corner))
		})
	}

	corners := b.Corners()
	rebuilt := EmptyBox()
	for _, c := range corners {
		rebuilt = rebuilt.Extend(c)
	}
	assert.Equal(t, b, rebuilt)
}

func TestMaxExtent(t *testing.T) {
	b := Box{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 5, 2}}
	ext, axis := b.MaxExtent()
	assert.Equal(t, 5.0, ext)
	assert.Equal(t, 1, axis)
	assert.Equal(t, mgl64.Vec3{0.5, 2.5, 1}, b.Center())
}

func TestIntersectRay(t *testing.T) {
	b := Box{Min: mgl64.Vec3{-1, -1, 4}, Max: mgl64.Vec3{1, 1, 6}}

	tNear, ok := b.IntersectRay(Ray{Direction: mgl64.Vec3{0, 0, 1}}, 100)
	require.True(t, ok)
	assert.InDelta(t, 4.0, tNear, 1e-12)

	_, ok = b.IntersectRay(Ray{Direction: mgl64.Vec3{0, 0, 1}}, 3)
	assert.False(t, ok, "box lies beyond tMax")

	_, ok = b.IntersectRay(Ray{Origin: mgl64.Vec3{5, 0, 0}, Direction: mgl64.Vec3{0, 0, 1}}, 100)
	assert.False(t, ok, "parallel ray outside slab")

	tNear, ok = b.IntersectRay(Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}}, 100)
	require.True(t, ok)
	assert.Equal(t, 0.0, tNear, "origin inside box")
}

func TestEmptyBoxHasInfiniteBounds(t *testing.T) {
	e := EmptyBox()
	assert.True(t, math.IsInf(e.Min.X(), 1))
	assert.True(t, math.IsInf(e.Max.Z(), -1))
}
