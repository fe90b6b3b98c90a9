package geometry

import (
	"github.com/Maksasj/nika/pkg/core"
)

// Intersectable is implemented by every shape the tracer can hit.
// The tracer only calls Intersect and never inspects the concrete shape.
type Intersectable interface {
	Intersect(ray core.Ray) HitResult
}

// HitResult is either a miss or a hit carrying the intersection data.
// Only read the payload fields when Hit is true.
type HitResult struct {
	Hit           bool
	EntryDistance float64   // Near root along the ray, negative when the origin is inside
	ExitDistance  float64   // Far root along the ray
	Point         core.Vec3 // Point at EntryDistance
	Normal        core.Vec3 // Outward unit normal at Point
}

// Miss is the empty hit result
var Miss = HitResult{}

// IsForward reports whether the hit lies in front of the ray origin
func (h HitResult) IsForward() bool {
	return h.Hit && h.EntryDistance >= 0
}
