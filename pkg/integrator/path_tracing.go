package integrator

import (
	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/scene"
)

// SurfaceOffset pushes bounce origins off the surface to avoid self-intersection
const SurfaceOffset = 1e-3

// PathTracingIntegrator implements the bounded mirror/scatter path tracer
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// TracePixel evaluates a single sample with the default sampling configuration
func TracePixel(camera *geometry.Camera, x, y, width, height int, objects []scene.Object, sampler core.Sampler) core.Color {
	return NewPathTracingIntegrator(scene.DefaultSamplingConfig()).TracePixel(camera, x, y, width, height, objects, sampler)
}

// TracePixel shoots the primary ray for pixel (x, y), follows it through the
// scene and returns the tone-mapped, gamma-corrected result with alpha 1.
func (pt *PathTracingIntegrator) TracePixel(camera *geometry.Camera, x, y, width, height int, objects []scene.Object, sampler core.Sampler) core.Color {
	ray := camera.GetRay(x, y, width, height)
	light := pt.RayColor(ray, objects, sampler)
	return core.ToneMap(light).ToColor()
}

// RayColor returns the linear radiance gathered along a path starting with ray.
// The direction must already be normalized.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, objects []scene.Object, sampler core.Sampler) core.Vec3 {
	light := core.NewVec3(0, 0, 0)
	throughput := core.NewVec3(1, 1, 1)

	for bounce := 0; bounce < pt.config.MaxDepth; bounce++ {
		hit, isHit := scene.NearestHit(ray, objects)
		if !isHit {
			// Escaped rays pick up the flat sky term
			light = light.Add(throughput.MultiplyVec(pt.config.SkyColor))
			break
		}

		mat := hit.Object.Material
		throughput = throughput.MultiplyVec(mat.Attenuation())

		// Emitters add light but do not end the path
		light = light.Add(throughput.MultiplyVec(mat.Emission()))

		direction, err := mat.Scatter(ray.Direction, hit.Normal, pt.config.SphereSampling, sampler)
		if err != nil {
			// Perturbation cancelled the reflection; nothing left to follow
			break
		}

		origin := hit.Point.Add(hit.Normal.Multiply(SurfaceOffset))
		ray = core.NewRay(origin, direction)
	}

	return light
}
