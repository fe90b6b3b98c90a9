package scene

import (
	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/material"
)

// NewDefaultScene creates the demo scene: three colored spheres resting on a
// huge, nearly diffuse floor sphere. +y points down in this scene.
func NewDefaultScene() *Scene {
	s := &Scene{
		Name:           "default",
		Camera:         geometry.NewCamera(core.NewVec3(0, 0, 0)),
		Objects:        make([]Object, 0, 4),
		SamplingConfig: DefaultSamplingConfig(),
	}

	red := material.NewMaterial(core.RGB(0.8, 0.4, 0.4), 0.1)
	green := material.NewMaterial(core.RGB(0.4, 0.8, 0.4), 0.02)
	blue := material.NewMaterial(core.RGB(0.4, 0.4, 0.8), 0.02)
	floor := material.NewMaterial(core.RGB(0.2, 0.2, 0.2), 0.99)

	s.AddSphere(core.NewVec3(0, 0, -7), 1.0, red)
	s.AddSphere(core.NewVec3(1, 0, -5), 0.8, green)
	s.AddSphere(core.NewVec3(-1, 0, -5), 0.8, blue)
	s.AddSphere(core.NewVec3(0, 400.5, -5), 400.0, floor)

	return s
}

// NewRGBScene creates three pure red, green and blue mirror spheres in front of the camera
func NewRGBScene() *Scene {
	s := &Scene{
		Name:           "rgb",
		Camera:         geometry.NewCamera(core.NewVec3(0, 0, 0)),
		Objects:        make([]Object, 0, 3),
		SamplingConfig: DefaultSamplingConfig(),
	}

	red := material.NewMaterial(core.RGB(1, 0, 0), 0)
	green := material.NewMaterial(core.RGB(0, 1, 0), 0)
	blue := material.NewMaterial(core.RGB(0, 0, 1), 0)

	s.AddSphere(core.NewVec3(-2, 0, -5), 1.0, red)
	s.AddSphere(core.NewVec3(0, 0, -4), 1.0, green)
	s.AddSphere(core.NewVec3(2, 0, -5), 1.0, blue)

	return s
}
