package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/motionblur"
	"github.com/gekko3d/motionblur/geom"
	"github.com/gekko3d/motionblur/xform"
)

// Scene is the YAML scene file: a list of boxes, each with one keyframe
// (static) or two (animated).
type Scene struct {
	Entities []SceneEntity `yaml:"entities"`
}

type SceneEntity struct {
	Name      string          `yaml:"name"`
	Bounds    SceneBox        `yaml:"bounds"`
	Keyframes []SceneKeyframe `yaml:"keyframes"`
}

type SceneBox struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

type SceneKeyframe struct {
	Time     float64        `yaml:"time"`
	Position [3]float64     `yaml:"position"`
	Rotation *SceneRotation `yaml:"rotation,omitempty"`
	Scale    *[3]float64    `yaml:"scale,omitempty"`
}

type SceneRotation struct {
	Axis    [3]float64 `yaml:"axis"`
	Degrees float64    `yaml:"degrees"`
}

// LoadScene reads and validates a scene YAML file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var scene Scene
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scene); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScene(&scene); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &scene, nil
}

func validateScene(s *Scene) error {
	if len(s.Entities) == 0 {
		return fmt.Errorf("entities list is required and must be non-empty")
	}
	for i, e := range s.Entities {
		if e.Name == "" {
			return fmt.Errorf("entities[%d]: name is required", i)
		}
		for a := 0; a < 3; a++ {
			if e.Bounds.Min[a] > e.Bounds.Max[a] {
				return fmt.Errorf("entity %q: bounds min %v exceeds max %v", e.Name, e.Bounds.Min, e.Bounds.Max)
			}
		}
		if n := len(e.Keyframes); n != 1 && n != 2 {
			return fmt.Errorf("entity %q: expected 1 or 2 keyframes, got %d", e.Name, n)
		}
		for j, k := range e.Keyframes {
			if k.Rotation != nil && mgl64.Vec3(k.Rotation.Axis).Len() == 0 {
				return fmt.Errorf("entity %q keyframe %d: rotation axis is zero", e.Name, j)
			}
			if k.Scale != nil && (k.Scale[0] == 0 || k.Scale[1] == 0 || k.Scale[2] == 0) {
				return fmt.Errorf("entity %q keyframe %d: scale %v has a zero component", e.Name, j, *k.Scale)
			}
		}
	}
	return nil
}

func (b SceneBox) Box() geom.Box {
	return geom.Box{Min: mgl64.Vec3(b.Min), Max: mgl64.Vec3(b.Max)}
}

// Pose converts the keyframe to a position/rotation/scale pose. A missing
// rotation is the identity and a missing scale is 1.
func (k SceneKeyframe) Pose() xform.TRS {
	pose := xform.NewTRS()
	pose.Position = mgl64.Vec3(k.Position)
	if k.Rotation != nil {
		axis := mgl64.Vec3(k.Rotation.Axis).Normalize()
		pose.Rotation = mgl64.QuatRotate(mgl64.DegToRad(k.Rotation.Degrees), axis)
	}
	if k.Scale != nil {
		pose.Scale = mgl64.Vec3(*k.Scale)
	}
	return pose
}

// Populate adds every scene entity to reg, in file order.
func (s *Scene) Populate(reg *motionblur.Registry) ([]motionblur.EntityId, error) {
	ids := make([]motionblur.EntityId, 0, len(s.Entities))
	for _, e := range s.Entities {
		var (
			id  motionblur.EntityId
			err error
		)
		k0 := e.Keyframes[0]
		if len(e.Keyframes) == 1 {
			id, err = reg.AddStatic(e.Name, e.Bounds.Box(), k0.Pose().Transform())
		} else {
			k1 := e.Keyframes[1]
			id, err = reg.AddAnimated(e.Name, e.Bounds.Box(), k0.Pose().Transform(), k0.Time, k1.Pose().Transform(), k1.Time)
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// openScene loads the scene at path into a committed registry.
func openScene(ctx context.Context, opts *RootOptions, path string, logOut io.Writer) (*motionblur.Registry, error) {
	cfg, err := opts.Config()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger(cfg, logOut)

	scene, err := LoadScene(path)
	if err != nil {
		return nil, err
	}

	reg, err := motionblur.NewRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}
	if _, err := scene.Populate(reg); err != nil {
		return nil, err
	}
	if err := reg.Commit(ctx); err != nil {
		return nil, err
	}
	return reg, nil
}
