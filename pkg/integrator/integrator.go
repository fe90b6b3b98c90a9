package integrator

import (
	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// TracePixel evaluates one sample for pixel (x, y) and returns a tone-mapped color.
	// The sampler is owned by the caller and must not be shared between goroutines.
	TracePixel(camera *geometry.Camera, x, y, width, height int, objects []scene.Object, sampler core.Sampler) core.Color
}
