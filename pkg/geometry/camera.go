package geometry

import (
	"fmt"

	"github.com/Maksasj/nika/pkg/core"
)

// DefaultMoveStep is the distance a single camera move covers
const DefaultMoveStep = 0.2

// Camera is a pinhole camera looking down -z.
// Tilt is added to every primary ray direction before normalization; it is a
// fixed offset, not a rotation.
type Camera struct {
	Origin core.Vec3
	Tilt   core.Vec3
}

// NewCamera creates a camera at origin with no tilt
func NewCamera(origin core.Vec3) *Camera {
	return &Camera{Origin: origin}
}

// Direction returns the normalized primary ray direction for pixel (x, y).
// The result depends only on its arguments, so repeated calls are bit-identical.
func (c *Camera) Direction(x, y, width, height int) core.Vec3 {
	w := float64(width)
	h := float64(height)
	aspectRatio := w / h

	dir := core.NewVec3(
		float64(x)/w-0.5,
		(float64(y)/h-0.5)/aspectRatio,
		-1.0,
	)
	return dir.Add(c.Tilt).Normalize()
}

// GetRay generates the primary ray for pixel (x, y)
func (c *Camera) GetRay(x, y, width, height int) core.Ray {
	return core.NewRay(c.Origin, c.Direction(x, y, width, height))
}

// MoveDirection is one of the four discrete camera moves an interactive driver can request
type MoveDirection int

const (
	MoveForward  MoveDirection = iota // -z, toward the scene
	MoveBackward                      // +z
	MoveRight                         // +x
	MoveLeft                          // -x
)

// String returns the name of the move
func (d MoveDirection) String() string {
	switch d {
	case MoveForward:
		return "forward"
	case MoveBackward:
		return "backward"
	case MoveRight:
		return "right"
	case MoveLeft:
		return "left"
	default:
		return fmt.Sprintf("MoveDirection(%d)", int(d))
	}
}

// Move returns a copy of the camera shifted by step along the given direction
func (c Camera) Move(direction MoveDirection, step float64) Camera {
	switch direction {
	case MoveForward:
		c.Origin.Z -= step
	case MoveBackward:
		c.Origin.Z += step
	case MoveRight:
		c.Origin.X += step
	case MoveLeft:
		c.Origin.X -= step
	}
	return c
}
