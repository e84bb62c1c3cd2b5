package motionblur

import (
	"context"
	"fmt"
	"sync"

	"github.com/gekko3d/motionblur/bvh"
	"github.com/gekko3d/motionblur/geom"
	"github.com/gekko3d/motionblur/motion"
	"github.com/gekko3d/motionblur/xform"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type EntityId string

func makeEntityId() EntityId {
	return EntityId(uuid.NewString())
}

// Entity is a box in local space carried through the scene by a motion.
// The entity owns the keyframe transforms its motion borrows.
type Entity struct {
	id          EntityId
	name        string
	localBounds geom.Box
	keyframes   [2]xform.Transform
	motion      *motion.Motion
}

func (e *Entity) Id() EntityId           { return e.id }
func (e *Entity) Name() string           { return e.name }
func (e *Entity) LocalBounds() geom.Box  { return e.localBounds }
func (e *Entity) Motion() *motion.Motion { return e.motion }
func (e *Entity) IsStill() bool          { return e.motion.IsStill() }

// Registry collects static and animated entities and, on Commit, bounds
// their motion and indexes the bounds for overlap and ray queries.
type Registry struct {
	cfg Config
	log Logger

	mu       sync.RWMutex
	entities map[EntityId]*Entity
	order    []EntityId

	nodes       []bvh.Node
	leaves      []EntityId
	bounds      geom.Box
	worldBounds map[EntityId]geom.Box
}

func NewRegistry(cfg Config, logger Logger) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Registry{
		cfg:      cfg,
		log:      logger,
		entities:    make(map[EntityId]*Entity),
		bounds:      geom.EmptyBox(),
		worldBounds: make(map[EntityId]geom.Box),
	}, nil
}

func (r *Registry) Config() Config { return r.cfg }

// AddStatic adds an entity held at tr for all time.
func (r *Registry) AddStatic(name string, localBounds geom.Box, tr xform.Transform) (EntityId, error) {
	e := &Entity{
		id:          makeEntityId(),
		name:        name,
		localBounds: localBounds,
	}
	e.keyframes[0] = tr
	k := motion.Keyframe{Transform: &e.keyframes[0]}
	e.motion = motion.New(k, k, motion.WithBoundsSteps(r.cfg.BoundsSteps))

	r.insert(e)
	r.log.Debugf("added static entity %q (%s)", name, e.id)
	return e.id, nil
}

// AddAnimated adds an entity moving from k0 at t0 to k1 at t1. Unless the
// motion is still (equal keyframes or equal times), both keyframes must be
// affine with a positive linear determinant.
func (r *Registry) AddAnimated(name string, localBounds geom.Box, k0 xform.Transform, t0 float64, k1 xform.Transform, t1 float64) (EntityId, error) {
	if !k0.Equal(k1) && t0 != t1 {
		for i, k := range []xform.Transform{k0, k1} {
			if err := validateKeyframe(k); err != nil {
				return "", fmt.Errorf("entity %q keyframe %d: %w", name, i, err)
			}
		}
	}

	e := &Entity{
		id:          makeEntityId(),
		name:        name,
		localBounds: localBounds,
		keyframes:   [2]xform.Transform{k0, k1},
	}
	e.motion = motion.New(
		motion.Keyframe{Transform: &e.keyframes[0], Time: t0},
		motion.Keyframe{Transform: &e.keyframes[1], Time: t1},
		motion.WithBoundsSteps(r.cfg.BoundsSteps),
	)

	r.insert(e)
	r.log.Debugf("added animated entity %q (%s) over [%g, %g], still=%v", name, e.id, t0, t1, e.motion.IsStill())
	return e.id, nil
}

func validateKeyframe(tr xform.Transform) error {
	if tr.Kind() != xform.Affine {
		return ErrProjectiveKeyframe
	}
	det := tr.Linear().Det()
	switch {
	case det == 0:
		return ErrSingularKeyframe
	case det < 0:
		return ErrReflectingKeyframe
	}
	return nil
}

func (r *Registry) insert(e *Entity) {
	r.mu.Lock()
	r.entities[e.id] = e
	r.order = append(r.order, e.id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) Entity(id EntityId) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	return e, nil
}

// Entities returns every entity in insertion order.
func (r *Registry) Entities() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entity, len(r.order))
	for i, id := range r.order {
		out[i] = r.entities[id]
	}
	return out
}

// TransformAt returns the entity's local-to-world transform at time.
func (r *Registry) TransformAt(id EntityId, time float64) (xform.Transform, error) {
	e, err := r.Entity(id)
	if err != nil {
		return xform.Transform{}, err
	}
	return e.motion.At(time), nil
}

// Commit bounds every entity's motion in parallel and rebuilds the
// acceleration tree. Entities added after Commit are not visible to
// queries until the next Commit.
func (r *Registry) Commit(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entities := make([]*Entity, len(r.order))
	for i, id := range r.order {
		entities[i] = r.entities[id]
	}
	boxes := make([]geom.Box, len(entities))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, e := range entities {
		i, e := i, e
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			boxes[i] = e.motion.BoxBounds(e.localBounds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Warnf("commit aborted: %v", err)
		return fmt.Errorf("commit aborted: %w", err)
	}

	bounds := geom.EmptyBox()
	leaves := make([]EntityId, len(entities))
	world := make(map[EntityId]geom.Box, len(entities))
	for i, e := range entities {
		leaves[i] = e.id
		world[e.id] = boxes[i]
		bounds = bounds.Union(boxes[i])
	}

	r.nodes = (&bvh.Builder{}).Build(boxes)
	r.leaves = leaves
	r.bounds = bounds
	r.worldBounds = world
	r.log.Infof("committed %d entities into %d nodes, scene bounds %v..%v", len(entities), len(r.nodes), bounds.Min, bounds.Max)
	return nil
}

// Bounds is the union of all entity motion bounds as of the last Commit.
func (r *Registry) Bounds() geom.Box {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bounds
}

// WorldBounds is the swept world box of id computed by the last Commit, or
// the empty box if the entity was added after it.
func (r *Registry) WorldBounds(id EntityId) (geom.Box, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.entities[id]; !ok {
		return geom.Box{}, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	if b, ok := r.worldBounds[id]; ok {
		return b, nil
	}
	return geom.EmptyBox(), nil
}

// Query returns the entities whose motion bounds overlap box.
func (r *Registry) Query(box geom.Box) []EntityId {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(bvh.Query(r.nodes, box))
}

// QueryRay returns the entities whose motion bounds ray enters within
// [0, tMax].
func (r *Registry) QueryRay(ray geom.Ray, tMax float64) []EntityId {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(bvh.QueryRay(r.nodes, ray, tMax))
}

// QueryFrustum returns the entities whose motion bounds may be visible
// through viewProj, a world-to-clip transform.
func (r *Registry) QueryFrustum(viewProj xform.Transform) []EntityId {
	f := geom.FrustumFromMatrix(viewProj.Matrix())
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(bvh.QueryFrustum(r.nodes, f))
}

func (r *Registry) resolve(items []int) []EntityId {
	out := make([]EntityId, len(items))
	for i, item := range items {
		out[i] = r.leaves[item]
	}
	return out
}
