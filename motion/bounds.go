package motion

import (
	"github.com/gekko3d/motionblur/geom"
	"github.com/gekko3d/motionblur/internal/check"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultBoundsSteps is the number of samples taken over [0, 1] when no
// other count is configured.
const DefaultBoundsSteps = 128

// BoundsSampler approximates the volume swept by a moving point or box by
// evaluating the motion at Steps evenly spaced normalized times, both ends
// included.
//
// There is no closed form for the path of a slerp+lerp transform, so the
// result is only as conservative as the sampling is dense: a fast rotation
// between samples can leave the true path outside the box.
type BoundsSampler struct {
	Steps int
}

func DefaultBoundsSampler() BoundsSampler {
	return BoundsSampler{Steps: DefaultBoundsSteps}
}

func (s BoundsSampler) steps() int {
	check.That(s.Steps >= 2, "motion: bounds sampler needs at least 2 steps, got %d", s.Steps)
	if s.Steps < 2 {
		return 2
	}
	return s.Steps
}

// Point bounds the trajectory of p under m.
func (s BoundsSampler) Point(m *Motion, p mgl64.Vec3) geom.Box {
	if m.still {
		return geom.PointBox(m.transform[0].ApplyPoint(p))
	}
	n := s.steps()
	out := geom.EmptyBox()
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		out = out.Extend(m.normalized(t).ApplyPoint(p))
	}
	return out
}

// Box bounds the volume swept by b under m as the union of the eight
// corner trajectories.
func (s BoundsSampler) Box(m *Motion, b geom.Box) geom.Box {
	if m.still || b.IsEmpty() {
		return m.transform[0].ApplyBox(b)
	}
	out := geom.EmptyBox()
	for _, c := range b.Corners() {
		out = out.Union(s.Point(m, c))
	}
	return out
}

func (m *Motion) PointBounds(p mgl64.Vec3) geom.Box {
	return m.sampler.Point(m, p)
}

func (m *Motion) BoxBounds(b geom.Box) geom.Box {
	return m.sampler.Box(m, b)
}
