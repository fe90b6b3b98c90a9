package loaders

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Maksasj/nika/pkg/core"
)

const SceneFileHelp = `
Scene files are TOML. Every section except [[sphere]] is optional.

	name = "example"
	description = "one mirror ball"

	[render]
	width = 800
	height = 600
	samples = 16
	max_depth = 5
	sky = [1.0, 1.0, 1.0]
	sampling = "legacy"   # or "uniform"
	seed = 42

	[camera]
	origin = [0.0, 0.0, 0.0]
	tilt = [0.0, 0.0, 0.0]

	[materials.chrome]
	albedo = [0.9, 0.9, 0.9]
	metallic = 0.0
	emission = [0.0, 0.0, 0.0]
	emission_strength = 0.0

	[[sphere]]
	center = [0.0, 0.0, -5.0]
	radius = 1.0
	material = "chrome"
`

// SceneFile is the decoded form of a TOML scene description
type SceneFile struct {
	Name        string                     `toml:"name"`
	Description string                     `toml:"description"`
	Render      RenderSection              `toml:"render"`
	Camera      CameraSection              `toml:"camera"`
	Materials   map[string]MaterialSection `toml:"materials"`
	Spheres     []SphereSection            `toml:"sphere"`

	// Which optional keys were present, keyed by dotted path (e.g. "render.seed")
	defined map[string]bool
}

// RenderSection holds the sampling settings of a scene file
type RenderSection struct {
	Width    int       `toml:"width"`
	Height   int       `toml:"height"`
	Samples  int       `toml:"samples"`
	MaxDepth int       `toml:"max_depth"`
	Sky      []float64 `toml:"sky"`
	Sampling string    `toml:"sampling"`
	Seed     int64     `toml:"seed"`
}

// CameraSection holds the camera placement of a scene file
type CameraSection struct {
	Origin []float64 `toml:"origin"`
	Tilt   []float64 `toml:"tilt"`
}

// MaterialSection describes one named material
type MaterialSection struct {
	Albedo           []float64 `toml:"albedo"`
	Metallic         float64   `toml:"metallic"`
	Emission         []float64 `toml:"emission"`
	EmissionStrength float64   `toml:"emission_strength"`
}

// SphereSection describes one sphere; Material names an entry of [materials]
type SphereSection struct {
	Center   []float64 `toml:"center"`
	Radius   float64   `toml:"radius"`
	Material string    `toml:"material"`
}

// LoadSceneFile reads and validates a TOML scene file from disk
func LoadSceneFile(filename string) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sceneFile, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sceneFile, nil
}

// ParseSceneFile decodes and validates TOML scene content from an io.Reader
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	var sceneFile SceneFile
	md, err := toml.NewDecoder(reader).Decode(&sceneFile)
	if err != nil {
		return nil, fmt.Errorf("failed to decode scene file: %w", err)
	}

	// Reject typos instead of silently rendering defaults
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys in scene file: %s", strings.Join(keys, ", "))
	}

	sceneFile.defined = make(map[string]bool)
	for _, key := range md.Keys() {
		sceneFile.defined[key.String()] = true
	}

	if err := sceneFile.validate(); err != nil {
		return nil, err
	}
	return &sceneFile, nil
}

// IsDefined reports whether the dotted key (e.g. "render.seed") was present in the file
func (f *SceneFile) IsDefined(key string) bool {
	return f.defined[key]
}

func (f *SceneFile) validate() error {
	if len(f.Spheres) == 0 {
		return fmt.Errorf("scene file defines no spheres")
	}
	if f.Render.Width < 0 || f.Render.Height < 0 {
		return fmt.Errorf("invalid image size %dx%d", f.Render.Width, f.Render.Height)
	}
	if f.Render.Samples < 0 {
		return fmt.Errorf("samples must not be negative, got %d", f.Render.Samples)
	}
	if f.Render.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", f.Render.MaxDepth)
	}
	if _, err := core.ParseSphereSampling(f.Render.Sampling); err != nil {
		return err
	}
	if f.Render.Sky != nil {
		if _, err := ToVec3("render.sky", f.Render.Sky); err != nil {
			return err
		}
	}
	if f.Camera.Origin != nil {
		if _, err := ToVec3("camera.origin", f.Camera.Origin); err != nil {
			return err
		}
	}
	if f.Camera.Tilt != nil {
		if _, err := ToVec3("camera.tilt", f.Camera.Tilt); err != nil {
			return err
		}
	}

	for name, mat := range f.Materials {
		if _, err := ToColor("materials."+name+".albedo", mat.Albedo); err != nil {
			return err
		}
		if mat.Emission != nil {
			if _, err := ToColor("materials."+name+".emission", mat.Emission); err != nil {
				return err
			}
		}
		if !isFinite(mat.Metallic) || mat.Metallic < 0 || mat.Metallic > 1 {
			return fmt.Errorf("materials.%s.metallic must be in [0,1], got %g", name, mat.Metallic)
		}
		if !isFinite(mat.EmissionStrength) || mat.EmissionStrength < 0 {
			return fmt.Errorf("materials.%s.emission_strength must not be negative, got %g", name, mat.EmissionStrength)
		}
	}

	for i, sphere := range f.Spheres {
		if _, err := ToVec3(fmt.Sprintf("sphere[%d].center", i), sphere.Center); err != nil {
			return err
		}
		if !isFinite(sphere.Radius) || sphere.Radius <= 0 {
			return fmt.Errorf("sphere[%d].radius must be positive, got %g", i, sphere.Radius)
		}
		if _, ok := f.Materials[sphere.Material]; !ok {
			return fmt.Errorf("sphere[%d] references unknown material %q", i, sphere.Material)
		}
	}
	return nil
}

// ToVec3 converts a three-element TOML array of finite numbers into a vector
func ToVec3(field string, values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s: expected 3 values, got %d", field, len(values))
	}
	if err := checkFinite(field, values); err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// ToColor converts an [r, g, b] or [r, g, b, a] TOML array of finite numbers into a color
func ToColor(field string, values []float64) (core.Color, error) {
	if err := checkFinite(field, values); err != nil {
		return core.Color{}, err
	}
	switch len(values) {
	case 3:
		return core.RGB(values[0], values[1], values[2]), nil
	case 4:
		return core.NewColor(values[0], values[1], values[2], values[3]), nil
	default:
		return core.Color{}, fmt.Errorf("%s: expected 3 or 4 values, got %d", field, len(values))
	}
}

// checkFinite rejects the nan and inf literals TOML allows
func checkFinite(field string, values []float64) error {
	for i, v := range values {
		if !isFinite(v) {
			return fmt.Errorf("%s[%d]: expected a finite number, got %g", field, i, v)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
