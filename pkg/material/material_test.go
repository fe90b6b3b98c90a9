package material

import (
	"errors"
	"math"
	"testing"

	"github.com/Maksasj/nika/pkg/core"
)

func TestNewMaterial_MetallicClamp(t *testing.T) {
	tests := []struct {
		name             string
		inputMetallic    float64
		expectedMetallic float64
	}{
		{"Valid metallic 0.0", 0.0, 0.0},
		{"Valid metallic 0.5", 0.5, 0.5},
		{"Valid metallic 1.0", 1.0, 1.0},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
	}

	albedo := core.RGB(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaterial(albedo, tt.inputMetallic)
			if m.Metallic != tt.expectedMetallic {
				t.Errorf("Expected metallic %f, got %f", tt.expectedMetallic, m.Metallic)
			}
		})
	}
}

func TestMaterial_Emission(t *testing.T) {
	plain := NewMaterial(core.RGB(1, 1, 1), 0)
	if plain.IsEmissive() {
		t.Error("Material without emission should not be emissive")
	}
	if plain.Emission() != (core.Vec3{}) {
		t.Errorf("Expected zero emission, got %v", plain.Emission())
	}

	light := NewEmissiveMaterial(core.RGB(1, 1, 1), 0, core.RGB(1, 0.5, 0.25), 4)
	if !light.IsEmissive() {
		t.Error("Expected emissive material")
	}
	expected := core.NewVec3(4, 2, 1)
	if light.Emission() != expected {
		t.Errorf("Expected emission %v, got %v", expected, light.Emission())
	}

	negative := NewEmissiveMaterial(core.RGB(1, 1, 1), 0, core.RGB(1, 1, 1), -3)
	if negative.EmissionStrength != 0 {
		t.Errorf("Expected negative strength clamped to 0, got %f", negative.EmissionStrength)
	}
}

func TestMaterial_ScatterPerfectMirror(t *testing.T) {
	m := NewMaterial(core.RGB(0.9, 0.9, 0.9), 0.0)
	sampler := core.NewSeededSampler(42)

	// Ray hitting surface at 45 degrees
	incoming := core.NewVec3(0, -1, -1).Normalize()
	normal := core.NewVec3(0, 0, 1)

	dir, err := m.Scatter(incoming, normal, core.SphereSamplingLegacy, sampler)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := core.NewVec3(0, -1, 1).Normalize()
	if dir.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected perfect reflection %v, got %v", expected, dir)
	}
}

func TestMaterial_ScatterRandomized(t *testing.T) {
	m := NewMaterial(core.RGB(0.5, 0.5, 0.5), 0.5)
	incoming := core.NewVec3(0, 0, -1)
	normal := core.NewVec3(0, 0, 1)
	mirror := incoming.Reflect(normal)

	for _, mode := range []core.SphereSampling{core.SphereSamplingLegacy, core.SphereSamplingUniform} {
		t.Run(mode.String(), func(t *testing.T) {
			sampler := core.NewSeededSampler(7)
			deviated := false
			for i := 0; i < 100; i++ {
				dir, err := m.Scatter(incoming, normal, mode, sampler)
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if math.Abs(dir.Length()-1) > 1e-9 {
					t.Fatalf("Expected unit direction, got %v", dir)
				}
				// metallic 0.5 keeps the direction within 30 degrees of the mirror
				if dir.Dot(mirror) < math.Cos(math.Pi/6)-1e-9 {
					t.Errorf("Direction %v strays too far from mirror %v", dir, mirror)
				}
				if dir.Subtract(mirror).Length() > 1e-6 {
					deviated = true
				}
			}
			if !deviated {
				t.Error("Expected randomized directions to deviate from the mirror")
			}
		})
	}
}

// stubSampler always returns the same draws
type stubSampler struct {
	v core.Vec3
}

func (s stubSampler) Get1D() float64 { return s.v.X }
func (s stubSampler) Get2D() core.Vec2 { return core.NewVec2(s.v.X, s.v.Y) }
func (s stubSampler) Get3D() core.Vec3 { return s.v }

func TestMaterial_ScatterDegenerate(t *testing.T) {
	m := NewMaterial(core.RGB(1, 1, 1), 1.0)

	// Cube sample (0,0,1) maps to direction (0,0,1); the mirror of (0,0,1) off (0,0,1) is (0,0,-1)
	sampler := stubSampler{v: core.NewVec3(0.5, 0.5, 1)}
	_, err := m.Scatter(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.SphereSamplingLegacy, sampler)
	if !errors.Is(err, core.ErrDegenerateVector) {
		t.Errorf("Expected ErrDegenerateVector, got %v", err)
	}
}
