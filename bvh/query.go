package bvh

import (
	"github.com/gekko3d/motionblur/geom"
)

// Query returns the indices of every leaf item whose bounds overlap box.
func Query(nodes []Node, box geom.Box) []int {
	return walk(nodes, func(b geom.Box) bool {
		return b.Overlaps(box)
	})
}

// QueryRay returns the indices of every leaf item whose bounds r enters
// within [0, tMax].
func QueryRay(nodes []Node, r geom.Ray, tMax float64) []int {
	return walk(nodes, func(b geom.Box) bool {
		_, ok := b.IntersectRay(r, tMax)
		return ok
	})
}

// QueryFrustum returns the indices of every leaf item whose bounds may be
// visible in f.
func QueryFrustum(nodes []Node, f geom.Frustum) []int {
	return walk(nodes, f.IntersectsBox)
}

func walk(nodes []Node, hit func(geom.Box) bool) []int {
	if len(nodes) == 0 {
		return nil
	}
	var out []int
	stack := []int32{0}
	for len(stack) > 0 {
		n := &nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if n.Bounds.IsEmpty() || !hit(n.Bounds) {
			continue
		}
		if n.IsLeaf() {
			for i := int32(0); i < n.LeafCount; i++ {
				out = append(out, int(n.LeafFirst+i))
			}
			continue
		}
		stack = append(stack, n.Right, n.Left)
	}
	return out
}
