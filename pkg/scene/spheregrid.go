package scene

import (
	"math"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.RGB(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a grid of spheres on a floor sphere.
// Hue varies across x and metallic varies with depth, from mirror rows at the
// front to fully randomized rows at the back.
func NewSphereGridScene() *Scene {
	config := DefaultSamplingConfig()
	config.Width = 800
	config.Height = 450
	config.SamplesPerPixel = 32

	camera := geometry.NewCamera(core.NewVec3(0, -1.2, 1))
	// Look slightly down at the grid
	camera.Tilt = core.NewVec3(0, 0.25, 0)

	s := &Scene{
		Name:           "spheregrid",
		Camera:         camera,
		Objects:        make([]Object, 0),
		SamplingConfig: config,
	}

	gridSize := 7
	spacing := 0.9
	radius := spacing * 0.35

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := (float64(i) - float64(gridSize-1)/2) * spacing
			z := -3.0 - float64(j)*spacing

			hue := float64(i) / float64(gridSize-1) * 360.0
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)
			metallic := float64(j) / float64(gridSize-1)

			mat := material.NewMaterial(oklchToRGB(lightness, 0.2, hue), metallic)
			// Sphere rests on the floor at y = 0 (+y is down)
			s.AddSphere(core.NewVec3(x, -radius, z), radius, mat)
		}
	}

	floor := material.NewMaterial(core.RGB(0.5, 0.5, 0.5), 0.9)
	s.AddSphere(core.NewVec3(0, 1000, -5), 1000, floor)

	return s
}
