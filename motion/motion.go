package motion

import (
	"github.com/gekko3d/motionblur/geom"
	"github.com/gekko3d/motionblur/xform"
	"github.com/go-gl/mathgl/mgl64"
)

// Keyframe is a transform sampled at a point in time. The transform is
// borrowed: it must outlive every Motion built from it.
type Keyframe struct {
	Transform *xform.Transform
	Time      float64
}

type Option func(*Motion)

// WithBoundsSteps sets the number of time samples PointBounds and
// BoxBounds take.
func WithBoundsSteps(n int) Option {
	return func(m *Motion) {
		m.sampler.Steps = n
	}
}

// Motion interpolates between two keyframed transforms. It is read-only
// after New returns and safe for concurrent queries once published.
type Motion struct {
	time      [2]float64
	transform [2]*xform.Transform
	still     bool

	translation [2]mgl64.Vec3
	rotation    [2]mgl64.Quat
	scale       [2]mgl64.Mat3

	sampler BoundsSampler
}

// New precomputes the decomposition of both keyframes. When both refer to
// the same transform (same pointer or exactly equal matrices), or share a
// time, the motion is still and nothing is decomposed, so a singular or
// reflecting transform is accepted in that case only.
func New(k0, k1 Keyframe, opts ...Option) *Motion {
	m := &Motion{
		time:      [2]float64{k0.Time, k1.Time},
		transform: [2]*xform.Transform{k0.Transform, k1.Transform},
		sampler:   DefaultBoundsSampler(),
	}
	m.still = k0.Transform == k1.Transform ||
		k0.Transform.Equal(*k1.Transform) ||
		k0.Time == k1.Time
	for _, opt := range opts {
		opt(m)
	}
	if m.still {
		return m
	}

	for i, tr := range m.transform {
		m.translation[i] = tr.Offset()
		m.rotation[i], m.scale[i] = Decompose(tr.Linear())
	}
	return m
}

func (m *Motion) IsStill() bool { return m.still }

func (m *Motion) Times() (float64, float64) {
	return m.time[0], m.time[1]
}

func (m *Motion) Endpoints() (*xform.Transform, *xform.Transform) {
	return m.transform[0], m.transform[1]
}

func (m *Motion) Sampler() BoundsSampler { return m.sampler }

// Normalized returns the transform at normalized time t. At or before 0 it
// is the first keyframe verbatim, at or after 1 the second one.
func (m *Motion) Normalized(t float64) xform.Transform {
	return *m.normalized(t)
}

// At returns the transform at an absolute time. Both keyframe times are
// inclusive: querying exactly at a keyframe returns that keyframe verbatim.
func (m *Motion) At(time float64) xform.Transform {
	return *m.at(time)
}

func (m *Motion) ApplyPoint(time float64, p mgl64.Vec3) mgl64.Vec3 {
	return m.at(time).ApplyPoint(p)
}

func (m *Motion) ApplyVector(time float64, v mgl64.Vec3) mgl64.Vec3 {
	return m.at(time).ApplyVector(v)
}

func (m *Motion) ApplyNormal(time float64, n mgl64.Vec3) mgl64.Vec3 {
	return m.at(time).ApplyNormal(n)
}

func (m *Motion) ApplyRay(time float64, r geom.Ray) geom.Ray {
	return m.at(time).ApplyRay(r)
}

// ApplyRayBundle moves the primary ray and its offsets with the single
// transform at time.
func (m *Motion) ApplyRayBundle(time float64, rb geom.RayBundle) geom.RayBundle {
	return m.at(time).ApplyRayBundle(rb)
}

func (m *Motion) at(time float64) *xform.Transform {
	if m.still {
		return m.transform[0]
	}
	// Normalizing first keeps the boundary test valid when the keyframes
	// are given in decreasing time order.
	return m.normalized((time - m.time[0]) / (m.time[1] - m.time[0]))
}

func (m *Motion) normalized(t float64) *xform.Transform {
	if m.still || t <= 0 {
		return m.transform[0]
	}
	if t >= 1 {
		return m.transform[1]
	}
	tr := m.blend(t)
	return &tr
}

// blend recomposes the interpolated parts as scale, then rotation, then
// translation.
func (m *Motion) blend(t float64) xform.Transform {
	translate := m.translation[0].Mul(1 - t).Add(m.translation[1].Mul(t))
	rotate := mgl64.QuatSlerp(m.rotation[0], m.rotation[1], t)
	scaling := m.scale[0].Mul(1 - t).Add(m.scale[1].Mul(t))

	out := xform.Translation(translate)
	out.Rotate(rotate)
	out.Append(xform.FromLinear(scaling))
	return out
}
