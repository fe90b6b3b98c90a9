package geometry

import (
	"math"

	"github.com/Maksasj/nika/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Intersect solves the ray/sphere quadratic.
// The near root is reported even when it is negative, as long as the far root is not.
func (s *Sphere) Intersect(ray core.Ray) HitResult {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 || a == 0 {
		return Miss
	}

	root := math.Sqrt(discriminant)
	near := (-b - root) / (2 * a)
	far := (-b + root) / (2 * a)
	if near > far {
		near, far = far, near
	}

	// Sphere is entirely behind the ray origin
	if far < 0 {
		return Miss
	}

	point := ray.At(near)
	normal := point.Subtract(s.Center).Normalize()

	return HitResult{
		Hit:           true,
		EntryDistance: near,
		ExitDistance:  far,
		Point:         point,
		Normal:        normal,
	}
}
