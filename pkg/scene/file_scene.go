package scene

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/loaders"
	"github.com/Maksasj/nika/pkg/material"
)

// NewFileScene creates a scene from a TOML scene file
func NewFileScene(filename string) (*Scene, error) {
	sceneFile, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}

	s, err := FromSceneFile(sceneFile)
	if err != nil {
		return nil, fmt.Errorf("failed to convert scene file %s: %w", filename, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return s, nil
}

// FromSceneFile converts a decoded scene file into a renderable scene.
// Keys missing from the file keep their DefaultSamplingConfig values.
func FromSceneFile(f *loaders.SceneFile) (*Scene, error) {
	config, err := convertRenderSection(f)
	if err != nil {
		return nil, err
	}

	camera, err := convertCamera(f)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Name:           f.Name,
		Camera:         camera,
		Objects:        make([]Object, 0, len(f.Spheres)),
		SamplingConfig: config,
	}

	// Convert materials in name order so errors are reported deterministically
	names := make([]string, 0, len(f.Materials))
	for name := range f.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	materials := make(map[string]*material.Material, len(names))
	for _, name := range names {
		mat, err := convertMaterial(name, f.Materials[name])
		if err != nil {
			return nil, err
		}
		materials[name] = mat
	}

	// Spheres keep file order, which decides nearest-hit ties
	for i, sphere := range f.Spheres {
		center, err := loaders.ToVec3(fmt.Sprintf("sphere[%d].center", i), sphere.Center)
		if err != nil {
			return nil, err
		}
		mat, ok := materials[sphere.Material]
		if !ok {
			return nil, fmt.Errorf("sphere[%d] references unknown material %q", i, sphere.Material)
		}
		s.AddSphere(center, sphere.Radius, mat)
	}

	return s, nil
}

func convertRenderSection(f *loaders.SceneFile) (SamplingConfig, error) {
	config := DefaultSamplingConfig()
	r := f.Render

	if r.Width > 0 {
		config.Width = r.Width
	}
	if r.Height > 0 {
		config.Height = r.Height
	}
	if r.Samples > 0 {
		config.SamplesPerPixel = r.Samples
	}
	if f.IsDefined("render.max_depth") {
		config.MaxDepth = r.MaxDepth
	}
	if f.IsDefined("render.seed") {
		config.Seed = r.Seed
	}
	if r.Sky != nil {
		sky, err := loaders.ToVec3("render.sky", r.Sky)
		if err != nil {
			return config, err
		}
		config.SkyColor = sky
	}

	mode, err := core.ParseSphereSampling(r.Sampling)
	if err != nil {
		return config, err
	}
	config.SphereSampling = mode

	return config, nil
}

func convertCamera(f *loaders.SceneFile) (*geometry.Camera, error) {
	camera := geometry.NewCamera(core.NewVec3(0, 0, 0))

	if f.Camera.Origin != nil {
		origin, err := loaders.ToVec3("camera.origin", f.Camera.Origin)
		if err != nil {
			return nil, err
		}
		camera.Origin = origin
	}
	if f.Camera.Tilt != nil {
		tilt, err := loaders.ToVec3("camera.tilt", f.Camera.Tilt)
		if err != nil {
			return nil, err
		}
		camera.Tilt = tilt
	}

	return camera, nil
}

func convertMaterial(name string, section loaders.MaterialSection) (*material.Material, error) {
	albedo, err := loaders.ToColor("materials."+name+".albedo", section.Albedo)
	if err != nil {
		return nil, err
	}

	if section.Emission == nil {
		return material.NewMaterial(albedo, section.Metallic), nil
	}

	emission, err := loaders.ToColor("materials."+name+".emission", section.Emission)
	if err != nil {
		return nil, err
	}
	return material.NewEmissiveMaterial(albedo, section.Metallic, emission, section.EmissionStrength), nil
}
