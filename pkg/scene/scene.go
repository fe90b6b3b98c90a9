package scene

import (
	"fmt"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/material"
)

// Object pairs a shape with the material it is rendered with
type Object struct {
	Shape    geometry.Intersectable
	Material *material.Material // Shared, not owned
}

// NewObject creates a new scene object
func NewObject(shape geometry.Intersectable, mat *material.Material) Object {
	return Object{Shape: shape, Material: mat}
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	Objects        []Object // Intersection order is significant for ties
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int                 // Image width
	Height          int                 // Image height
	SamplesPerPixel int                 // Number of samples accumulated per pixel
	MaxDepth        int                 // Maximum ray bounce depth
	SkyColor        core.Vec3           // Radiance returned by rays that escape the scene
	SphereSampling  core.SphereSampling // Random direction sampler used for metallic scatter
	Seed            int64               // Base seed for per-tile random generators
}

// DefaultSamplingConfig returns the reference settings: one sample, five bounces, white sky
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           800,
		Height:          600,
		SamplesPerPixel: 1,
		MaxDepth:        5,
		SkyColor:        core.NewVec3(1, 1, 1),
		SphereSampling:  core.SphereSamplingLegacy,
		Seed:            42,
	}
}

// Validate checks that the configuration can be rendered
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// AddSphere appends a sphere with the given material to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat *material.Material) {
	s.Objects = append(s.Objects, NewObject(geometry.NewSphere(center, radius), mat))
}

// Hit returns the nearest forward hit in the scene
func (s *Scene) Hit(ray core.Ray) (Hit, bool) {
	return NearestHit(ray, s.Objects)
}

// Hit is a scene-level intersection: the object that was hit and where
type Hit struct {
	Object *Object
	geometry.HitResult
}

// NearestHit scans every object in order and returns the closest hit in front of
// the ray origin. Hits with a negative entry distance are ignored. The best hit is
// only replaced by a strictly closer one, so the earlier object wins ties.
func NearestHit(ray core.Ray, objects []Object) (Hit, bool) {
	var closest Hit
	hitAnything := false

	for i := range objects {
		result := objects[i].Shape.Intersect(ray)
		if !result.IsForward() {
			continue
		}
		if hitAnything && result.EntryDistance >= closest.EntryDistance {
			continue
		}

		closest = Hit{Object: &objects[i], HitResult: result}
		hitAnything = true
	}

	return closest, hitAnything
}
