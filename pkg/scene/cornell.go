package scene

import (
	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/material"
)

// NewCornellScene creates a Cornell-style box built from huge spheres, lit by an
// emissive sphere pushed into the ceiling. The sky is black so all light comes
// from the emitter.
func NewCornellScene() *Scene {
	config := DefaultSamplingConfig()
	config.Width = 400
	config.Height = 400
	config.SamplesPerPixel = 64
	config.SkyColor = core.NewVec3(0, 0, 0)

	s := &Scene{
		Name:           "cornell",
		Camera:         geometry.NewCamera(core.NewVec3(0, 0, 0)),
		Objects:        make([]Object, 0, 8),
		SamplingConfig: config,
	}

	white := material.NewMaterial(core.RGB(0.73, 0.73, 0.73), 1.0)
	red := material.NewMaterial(core.RGB(0.65, 0.05, 0.05), 1.0)
	green := material.NewMaterial(core.RGB(0.12, 0.45, 0.15), 1.0)
	mirror := material.NewMaterial(core.RGB(0.9, 0.9, 0.9), 0.0)
	light := material.NewEmissiveMaterial(core.RGB(1, 1, 1), 1.0, core.RGB(1, 0.9, 0.8), 8)

	// Walls are spheres large enough to look flat; the box spans x,y in [-2,2] and z down to -8
	const wallRadius = 1000.0
	s.AddSphere(core.NewVec3(-wallRadius-2, 0, -4), wallRadius, red)
	s.AddSphere(core.NewVec3(wallRadius+2, 0, -4), wallRadius, green)
	// Floor sits at +y since +y is down
	s.AddSphere(core.NewVec3(0, wallRadius+2, -4), wallRadius, white)
	s.AddSphere(core.NewVec3(0, -wallRadius-2, -4), wallRadius, white)
	s.AddSphere(core.NewVec3(0, 0, -wallRadius-8), wallRadius, white)

	// Light pokes through the ceiling
	s.AddSphere(core.NewVec3(0, -2.9, -5), 1.0, light)

	s.AddSphere(core.NewVec3(-0.9, 1.2, -5.5), 0.8, mirror)
	s.AddSphere(core.NewVec3(0.9, 1.2, -4.5), 0.8, white)

	return s
}
