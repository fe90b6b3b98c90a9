package core

import "math"

// DisplayGamma is the gamma used when converting linear radiance for display
const DisplayGamma = 2.2

// Color is a linear RGBA radiance value. Channels may exceed 1 before tone mapping.
type Color struct {
	R, G, B, A float64
}

// NewColor creates a new Color
func NewColor(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB creates an opaque color
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1.0}
}

// Black is opaque black, the cleared canvas value
var Black = Color{0, 0, 0, 1}

// Add returns the channel-wise sum of two colors, alpha included
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B, c.A + other.A}
}

// Multiply scales all four channels by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar, c.A * scalar}
}

// MultiplyColor returns the channel-wise product of two colors
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B, c.A * other.A}
}

// Divide divides all four channels by a scalar
func (c Color) Divide(scalar float64) Color {
	return Color{c.R / scalar, c.G / scalar, c.B / scalar, c.A / scalar}
}

// Vec3 drops alpha and returns the RGB channels as a vector
func (c Color) Vec3() Vec3 {
	return Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Clamp returns the color with every channel clamped to [min, max]
func (c Color) Clamp(minVal, maxVal float64) Color {
	return Color{
		R: max(minVal, min(maxVal, c.R)),
		G: max(minVal, min(maxVal, c.G)),
		B: max(minVal, min(maxVal, c.B)),
		A: max(minVal, min(maxVal, c.A)),
	}
}

// IsFinite reports whether every channel is a finite number
func (c Color) IsFinite() bool {
	for _, ch := range [4]float64{c.R, c.G, c.B, c.A} {
		if math.IsNaN(ch) || math.IsInf(ch, 0) {
			return false
		}
	}
	return true
}

// Reinhard applies the x/(x+1) tone curve component-wise.
// For non-negative input the result lies in [0, 1).
func Reinhard(light Vec3) Vec3 {
	return light.DivideVec(light.AddScalar(1))
}

// GammaCorrect raises each component to 1/gamma
func GammaCorrect(light Vec3, gamma float64) Vec3 {
	return light.Pow(1.0 / gamma)
}

// ToneMap applies Reinhard tone mapping followed by display gamma correction
func ToneMap(light Vec3) Vec3 {
	return GammaCorrect(Reinhard(light), DisplayGamma)
}
