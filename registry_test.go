package motionblur

import (
	"bytes"
	"context"
	"math"
	"sync"
	"testing"

	"github.com/gekko3d/motionblur/geom"
	"github.com/gekko3d/motionblur/xform"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unitBox = geom.Box{Min: mgl64.Vec3{-0.5, -0.5, -0.5}, Max: mgl64.Vec3{0.5, 0.5, 0.5}}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 2
	r, err := NewRegistry(cfg, NewNopLogger())
	require.NoError(t, err)
	return r
}

func TestNewRegistryRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	_, err := NewRegistry(cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAddStatic(t *testing.T) {
	r := newTestRegistry(t)
	id, err := r.AddStatic("crate", unitBox, xform.Translation(mgl64.Vec3{3, 0, 0}))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, r.Len())

	e, err := r.Entity(id)
	require.NoError(t, err)
	assert.Equal(t, "crate", e.Name())
	assert.Equal(t, id, e.Id())
	assert.True(t, e.IsStill())
	wb, err := r.WorldBounds(id)
	require.NoError(t, err)
	assert.True(t, wb.IsEmpty(), "not committed yet")

	tr, err := r.TransformAt(id, 42)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{3, 0, 0}, tr.Offset())
}

func TestAddAnimatedValidatesKeyframes(t *testing.T) {
	r := newTestRegistry(t)
	ok := xform.Identity()

	singular := xform.FromPair(mgl64.Scale3D(1, 0, 1), mgl64.Ident4())
	_, err := r.AddAnimated("flat", unitBox, ok, 0, singular, 1)
	assert.ErrorIs(t, err, ErrSingularKeyframe)

	mirror := xform.Scaling(mgl64.Vec3{-1, 1, 1})
	_, err = r.AddAnimated("mirror", unitBox, mirror, 0, ok, 1)
	assert.ErrorIs(t, err, ErrReflectingKeyframe)

	persp := xform.FromProjective(mgl64.Perspective(1, 1, 0.1, 10))
	_, err = r.AddAnimated("camera", unitBox, ok, 0, persp, 1)
	assert.ErrorIs(t, err, ErrProjectiveKeyframe)

	assert.Equal(t, 0, r.Len())

	// Equal keyframes never get decomposed, so anything goes.
	id, err := r.AddAnimated("mirror", unitBox, mirror, 0, mirror, 1)
	require.NoError(t, err)
	e, err := r.Entity(id)
	require.NoError(t, err)
	assert.True(t, e.IsStill())
}

func TestAddAnimatedEqualTimesIsStill(t *testing.T) {
	r := newTestRegistry(t)
	singular := xform.FromPair(mgl64.Scale3D(1, 0, 1), mgl64.Ident4())

	// No time passes between the keyframes, so neither is decomposed.
	id, err := r.AddAnimated("flat", unitBox, xform.Identity(), 2, singular, 2)
	require.NoError(t, err)
	e, err := r.Entity(id)
	require.NoError(t, err)
	assert.True(t, e.IsStill())
	require.NoError(t, r.Commit(context.Background()))
}

func TestRegistryOwnsKeyframes(t *testing.T) {
	r := newTestRegistry(t)
	k0 := xform.Identity()
	k1 := xform.Translation(mgl64.Vec3{10, 0, 0})
	id, err := r.AddAnimated("mover", unitBox, k0, 0, k1, 1)
	require.NoError(t, err)

	// Mutating the caller's copies does not reach the entity.
	k0.Translate(mgl64.Vec3{100, 0, 0})
	k1.Translate(mgl64.Vec3{100, 0, 0})

	tr, err := r.TransformAt(id, 0.5)
	require.NoError(t, err)
	assert.True(t, tr.ApplyPoint(mgl64.Vec3{}).ApproxEqualThreshold(mgl64.Vec3{5, 0, 0}, 1e-9))
}

func TestUnknownEntity(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Entity("nope")
	assert.ErrorIs(t, err, ErrUnknownEntity)
	_, err = r.TransformAt("nope", 0)
	assert.ErrorIs(t, err, ErrUnknownEntity)
	_, err = r.WorldBounds("nope")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func buildScene(t *testing.T) (*Registry, EntityId, EntityId, EntityId) {
	t.Helper()
	r := newTestRegistry(t)

	crate, err := r.AddStatic("crate", unitBox, xform.Translation(mgl64.Vec3{0, 0, 5}))
	require.NoError(t, err)

	slider, err := r.AddAnimated("slider", unitBox,
		xform.Translation(mgl64.Vec3{10, 0, 0}), 0,
		xform.Translation(mgl64.Vec3{20, 0, 0}), 1)
	require.NoError(t, err)

	k1 := xform.Translation(mgl64.Vec3{0, 10, 0})
	k1.Rotate(mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 0, 1}))
	spinner, err := r.AddAnimated("spinner", unitBox, xform.Translation(mgl64.Vec3{0, 10, 0}), 0, k1, 1)
	require.NoError(t, err)

	require.NoError(t, r.Commit(context.Background()))
	return r, crate, slider, spinner
}

func TestCommitComputesMotionBounds(t *testing.T) {
	r, crate, slider, _ := buildScene(t)

	wb, err := r.WorldBounds(crate)
	require.NoError(t, err)
	assert.Equal(t, geom.Box{Min: mgl64.Vec3{-0.5, -0.5, 4.5}, Max: mgl64.Vec3{0.5, 0.5, 5.5}}, wb)

	wb, err = r.WorldBounds(slider)
	require.NoError(t, err)
	assert.True(t, wb.Min.ApproxEqualThreshold(mgl64.Vec3{9.5, -0.5, -0.5}, 1e-9), "min %v", wb.Min)
	assert.True(t, wb.Max.ApproxEqualThreshold(mgl64.Vec3{20.5, 0.5, 0.5}, 1e-9), "max %v", wb.Max)

	scene := r.Bounds()
	for _, ent := range r.Entities() {
		wb, err := r.WorldBounds(ent.Id())
		require.NoError(t, err)
		assert.True(t, scene.Contains(wb), ent.Name())
	}
}

// Run with -race: readers must never observe a Commit in progress.
func TestCommitConcurrentWithWorldBounds(t *testing.T) {
	r, crate, slider, _ := buildScene(t)
	want, err := r.WorldBounds(slider)
	require.NoError(t, err)

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			assert.NoError(t, r.Commit(context.Background()))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			for _, e := range r.Entities() {
				_, err := r.WorldBounds(e.Id())
				assert.NoError(t, err)
			}
			got, err := r.WorldBounds(slider)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
			assert.True(t, r.Bounds().Contains(want))
			assert.Contains(t, r.Query(geom.Box{Min: mgl64.Vec3{-1, -1, 4}, Max: mgl64.Vec3{1, 1, 6}}), crate)
		}
	}()
	wg.Wait()
}

func TestQuery(t *testing.T) {
	r, crate, slider, spinner := buildScene(t)

	// Halfway along the slider's path, where it is at neither keyframe.
	hits := r.Query(geom.Box{Min: mgl64.Vec3{14, -1, -1}, Max: mgl64.Vec3{16, 1, 1}})
	assert.Equal(t, []EntityId{slider}, hits)

	hits = r.Query(geom.Box{Min: mgl64.Vec3{-1, -1, 4}, Max: mgl64.Vec3{1, 1, 6}})
	assert.Equal(t, []EntityId{crate}, hits)

	hits = r.Query(geom.Box{Min: mgl64.Vec3{-100, -100, -100}, Max: mgl64.Vec3{100, 100, 100}})
	assert.ElementsMatch(t, []EntityId{crate, slider, spinner}, hits)

	assert.Empty(t, r.Query(geom.Box{Min: mgl64.Vec3{50, 50, 50}, Max: mgl64.Vec3{51, 51, 51}}))
}

func TestQueryRay(t *testing.T) {
	r, crate, slider, _ := buildScene(t)

	down := geom.Ray{Origin: mgl64.Vec3{0, 0, -10}, Direction: mgl64.Vec3{0, 0, 1}}
	assert.Equal(t, []EntityId{crate}, r.QueryRay(down, 100))
	assert.Empty(t, r.QueryRay(down, 5))

	along := geom.Ray{Origin: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}}
	assert.Equal(t, []EntityId{slider}, r.QueryRay(along, 100))
}

func TestQueriesSeeOnlyCommittedEntities(t *testing.T) {
	r, _, _, _ := buildScene(t)
	far := geom.Box{Min: mgl64.Vec3{99, 99, 99}, Max: mgl64.Vec3{101, 101, 101}}

	id, err := r.AddStatic("late", unitBox, xform.Translation(mgl64.Vec3{100, 100, 100}))
	require.NoError(t, err)
	assert.Empty(t, r.Query(far))

	require.NoError(t, r.Commit(context.Background()))
	assert.Equal(t, []EntityId{id}, r.Query(far))
}

func TestCommitHonoursCancellation(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.AddStatic("crate", unitBox, xform.Identity())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Commit(ctx), context.Canceled)
	assert.True(t, r.Bounds().IsEmpty())
}

func TestCommitEmptyRegistry(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Commit(context.Background()))
	assert.True(t, r.Bounds().IsEmpty())
	assert.Empty(t, r.Query(unitBox))
}

func TestCommitLogs(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	r, err := NewRegistry(cfg, NewWriterLogger("test", true, &out, &out))
	require.NoError(t, err)

	_, err = r.AddStatic("crate", unitBox, xform.Identity())
	require.NoError(t, err)
	require.NoError(t, r.Commit(context.Background()))

	assert.Contains(t, out.String(), `added static entity "crate"`)
	assert.Contains(t, out.String(), "committed 1 entities")
}

func TestQueryFrustum(t *testing.T) {
	r, crate, _, spinner := buildScene(t)

	// Looking down -z from above the crate sees only the crate.
	proj := mgl64.Perspective(mgl64.DegToRad(20), 1, 0.1, 100)
	view := xform.LookAt(mgl64.Vec3{0, 0, 20}, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}).Invert()
	viewProj := xform.Compose(xform.FromProjective(proj), view)
	require.Equal(t, xform.Projective, viewProj.Kind())

	assert.Equal(t, []EntityId{crate}, r.QueryFrustum(viewProj))

	// Turning toward the spinner picks it up instead.
	view = xform.LookAt(mgl64.Vec3{0, 10, 20}, mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, 1, 0}).Invert()
	assert.Equal(t, []EntityId{spinner}, r.QueryFrustum(xform.Compose(xform.FromProjective(proj), view)))
}
