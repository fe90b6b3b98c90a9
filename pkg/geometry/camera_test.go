package geometry

import (
	"math"
	"testing"

	"github.com/Maksasj/nika/pkg/core"
)

func TestCamera_DirectionDeterministic(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 0))

	for _, px := range [][2]int{{0, 0}, {17, 3}, {399, 224}} {
		a := camera.Direction(px[0], px[1], 400, 225)
		b := camera.Direction(px[0], px[1], 400, 225)
		if a != b {
			t.Errorf("Direction for %v not bit-identical: %v vs %v", px, a, b)
		}
		if math.Abs(a.Length()-1) > 1e-12 {
			t.Errorf("Expected unit direction, got length %f", a.Length())
		}
	}
}

func TestCamera_DirectionFormula(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 0))
	width, height := 800, 600
	aspect := float64(width) / float64(height)

	tests := []struct {
		name string
		x, y int
		raw  core.Vec3
	}{
		{"center", 400, 300, core.NewVec3(0, 0, -1)},
		{"top left", 0, 0, core.NewVec3(-0.5, -0.5/aspect, -1)},
		{"right edge", 600, 300, core.NewVec3(0.25, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := camera.Direction(tt.x, tt.y, width, height)
			expected := tt.raw.Normalize()
			if got.Subtract(expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", expected, got)
			}
		})
	}
}

func TestCamera_Tilt(t *testing.T) {
	camera := &Camera{Tilt: core.NewVec3(0, 0.5, 0)}
	got := camera.Direction(400, 300, 800, 600)
	expected := core.NewVec3(0, 0.5, -1).Normalize()
	if got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected tilted direction %v, got %v", expected, got)
	}
}

func TestCamera_GetRayUsesOrigin(t *testing.T) {
	origin := core.NewVec3(1, 2, 3)
	ray := NewCamera(origin).GetRay(10, 10, 20, 20)
	if ray.Origin != origin {
		t.Errorf("Expected ray origin %v, got %v", origin, ray.Origin)
	}
}

func TestCamera_Move(t *testing.T) {
	start := Camera{Origin: core.NewVec3(0, 0, 0)}

	tests := []struct {
		direction MoveDirection
		expected  core.Vec3
	}{
		{MoveForward, core.NewVec3(0, 0, -DefaultMoveStep)},
		{MoveBackward, core.NewVec3(0, 0, DefaultMoveStep)},
		{MoveRight, core.NewVec3(DefaultMoveStep, 0, 0)},
		{MoveLeft, core.NewVec3(-DefaultMoveStep, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.direction.String(), func(t *testing.T) {
			moved := start.Move(tt.direction, DefaultMoveStep)
			if moved.Origin != tt.expected {
				t.Errorf("Expected origin %v, got %v", tt.expected, moved.Origin)
			}
		})
	}

	if start.Origin != (core.Vec3{}) {
		t.Error("Move must not modify the receiver")
	}
}
