package material

import (
	"github.com/Maksasj/nika/pkg/core"
)

// Material describes how a surface attenuates, reflects and emits light.
// Materials are shared between objects and must not be modified while rendering.
type Material struct {
	Albedo           core.Color // Multiplicative attenuation per bounce
	Metallic         float64    // 0.0 = perfect mirror, 1.0 = fully randomized bounce
	EmissionColor    core.Color // Color of emitted light
	EmissionStrength float64    // Scale applied to EmissionColor
}

// NewMaterial creates a non-emissive material
func NewMaterial(albedo core.Color, metallic float64) *Material {
	return &Material{
		Albedo:   albedo,
		Metallic: clamp01(metallic),
	}
}

// NewEmissiveMaterial creates a material that also emits light
func NewEmissiveMaterial(albedo core.Color, metallic float64, emission core.Color, strength float64) *Material {
	return &Material{
		Albedo:           albedo,
		Metallic:         clamp01(metallic),
		EmissionColor:    emission,
		EmissionStrength: max(0, strength),
	}
}

// Attenuation returns the albedo as an RGB vector
func (m *Material) Attenuation() core.Vec3 {
	return m.Albedo.Vec3()
}

// Emission returns the emitted radiance (color scaled by strength)
func (m *Material) Emission() core.Vec3 {
	return m.EmissionColor.Vec3().Multiply(m.EmissionStrength)
}

// IsEmissive reports whether the material contributes light of its own
func (m *Material) IsEmissive() bool {
	return m.EmissionStrength > 0 && m.EmissionColor.Vec3() != (core.Vec3{})
}

// Scatter returns the normalized outgoing direction for a ray arriving along
// incoming at a surface with the given normal. The perfect reflection is
// perturbed by a random unit-sphere direction scaled by Metallic.
// It returns core.ErrDegenerateVector when the perturbation cancels the reflection.
func (m *Material) Scatter(incoming, normal core.Vec3, mode core.SphereSampling, sampler core.Sampler) (core.Vec3, error) {
	reflected := incoming.Reflect(normal)

	// A perfect mirror needs no random draw
	if m.Metallic > 0 {
		perturbation := core.SampleUnitSphere(mode, sampler).Multiply(m.Metallic)
		reflected = reflected.Add(perturbation)
	}

	return reflected.NormalizeChecked()
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
