package core

import (
	"fmt"
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator.
// It is not safe for concurrent use; give each worker its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler backed by a fresh generator for the given seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// SphereSampling selects how random unit-sphere directions are drawn
type SphereSampling int

const (
	// SphereSamplingLegacy draws a point in the [-1,1]³ cube and normalizes it.
	// The distribution is biased toward the cube corners; kept for output parity.
	SphereSamplingLegacy SphereSampling = iota
	// SphereSamplingUniform draws uniformly distributed directions on the unit sphere
	SphereSamplingUniform
)

// String returns the config name of the sampling mode
func (s SphereSampling) String() string {
	switch s {
	case SphereSamplingLegacy:
		return "legacy"
	case SphereSamplingUniform:
		return "uniform"
	default:
		return fmt.Sprintf("SphereSampling(%d)", int(s))
	}
}

// ParseSphereSampling converts a config name into a SphereSampling mode
func ParseSphereSampling(name string) (SphereSampling, error) {
	switch name {
	case "", "legacy":
		return SphereSamplingLegacy, nil
	case "uniform":
		return SphereSamplingUniform, nil
	default:
		return 0, fmt.Errorf("unknown sphere sampling mode %q (want legacy or uniform)", name)
	}
}

// SampleUnitSphere returns a random unit-length direction using the given mode
func SampleUnitSphere(mode SphereSampling, sampler Sampler) Vec3 {
	if mode == SphereSamplingUniform {
		return SampleOnUnitSphere(sampler.Get2D())
	}
	return SampleCubeNormalized(sampler)
}

// SampleCubeNormalized generates a point in the [-1,1]³ cube and projects it onto the unit sphere
func SampleCubeNormalized(sampler Sampler) Vec3 {
	for {
		u := sampler.Get3D()
		p := NewVec3(2*u.X-1, 2*u.Y-1, 2*u.Z-1)
		// The cube center cannot be projected; draw again
		if unit, err := p.NormalizeChecked(); err == nil {
			return unit
		}
	}
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	return NewVec3(x, y, z)
}

// TileSeed derives a deterministic per-tile seed from a render seed
func TileSeed(seed int64, tileID int) int64 {
	// +42 to avoid seed 0 for the first tile
	return seed*1_000_003 + int64(tileID) + 42
}
