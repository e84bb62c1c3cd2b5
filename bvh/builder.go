package bvh

import (
	"sort"

	"github.com/gekko3d/motionblur/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Node is one entry of the linearized tree. Interior nodes have Left and
// Right set and LeafCount 0; leaves have Left == Right == -1 and reference
// LeafCount items starting at LeafFirst.
type Node struct {
	Bounds    geom.Box
	Left      int32
	Right     int32
	LeafFirst int32
	LeafCount int32
}

func (n *Node) IsLeaf() bool {
	return n.Left == -1 && n.Right == -1
}

type item struct {
	bounds   geom.Box
	centroid mgl64.Vec3
	index    int
}

// Builder builds a top-level tree over per-object boxes, splitting at the
// median centroid along the widest axis. Node 0 is the root.
type Builder struct{}

func (b *Builder) Build(boxes []geom.Box) []Node {
	if len(boxes) == 0 {
		return []Node{{Bounds: geom.EmptyBox(), Left: -1, Right: -1, LeafFirst: -1}}
	}

	items := make([]item, len(boxes))
	for i, bounds := range boxes {
		items[i] = item{
			bounds:   bounds,
			centroid: bounds.Center(),
			index:    i,
		}
	}

	nodes := make([]Node, 0, 2*len(boxes)-1)
	b.recursiveBuild(items, &nodes)
	return nodes
}

func (b *Builder) recursiveBuild(items []item, nodes *[]Node) int32 {
	idx := int32(len(*nodes))
	*nodes = append(*nodes, Node{Left: -1, Right: -1, LeafFirst: -1, LeafCount: 0})

	bounds := geom.EmptyBox()
	centroids := geom.EmptyBox()
	for _, it := range items {
		bounds = bounds.Union(it.bounds)
		centroids = centroids.Extend(it.centroid)
	}
	(*nodes)[idx].Bounds = bounds

	if len(items) == 1 {
		(*nodes)[idx].LeafFirst = int32(items[0].index)
		(*nodes)[idx].LeafCount = 1
		return idx
	}

	_, axis := centroids.MaxExtent()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].centroid[axis] < items[j].centroid[axis]
	})

	mid := len(items) / 2
	left := b.recursiveBuild(items[:mid], nodes)
	right := b.recursiveBuild(items[mid:], nodes)
	(*nodes)[idx].Left = left
	(*nodes)[idx].Right = right

	return idx
}
