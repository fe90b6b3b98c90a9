package renderer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/scene"
)

// MockIntegrator returns a color derived from the pixel position
type MockIntegrator struct {
	callCount atomic.Int64
}

func (m *MockIntegrator) TracePixel(camera *geometry.Camera, x, y, width, height int, objects []scene.Object, sampler core.Sampler) core.Color {
	m.callCount.Add(1)
	return core.RGB(float64(x)/float64(width), float64(y)/float64(height), 0.5)
}

// testScene returns a small scene that renders quickly
func testScene(width, height, samples int) *scene.Scene {
	sc := scene.NewRGBScene()
	sc.SamplingConfig.Width = width
	sc.SamplingConfig.Height = height
	sc.SamplingConfig.SamplesPerPixel = samples
	return sc
}

func TestRaytracer_RenderAveragesSamples(t *testing.T) {
	sc := testScene(10, 6, 3)
	rt, err := NewRaytracer(sc, Config{TileSize: 4, NumWorkers: 2}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	mock := &MockIntegrator{}
	rt.SetIntegrator(mock)

	canvas := rt.NewCanvas()
	stats, err := rt.Render(context.Background(), canvas)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := mock.callCount.Load(); got != 10*6*3 {
		t.Errorf("Expected %d integrator calls, got %d", 10*6*3, got)
	}
	if stats.TotalPixels != 60 || stats.TotalSamples != 180 || stats.SamplesPerPixel != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.Tiles != 3*2 {
		t.Errorf("Expected 6 tiles, got %d", stats.Tiles)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			expected := core.RGB(float64(x)/10, float64(y)/6, 0.5)
			got := canvas.At(x, y)
			if got.Vec3().Subtract(expected.Vec3()).Length() > 1e-12 || got.A != 1 {
				t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, expected, got)
			}
		}
	}
}

func TestRaytracer_DeterministicAcrossWorkers(t *testing.T) {
	render := func(workers int) *Canvas {
		sc := testScene(48, 36, 2)
		rt, err := NewRaytracer(sc, Config{TileSize: 16, NumWorkers: workers}, nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		canvas := rt.NewCanvas()
		if _, err := rt.Render(context.Background(), canvas); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return canvas
	}

	single := render(1)
	parallel := render(8)

	for i := range single.Pixels() {
		if single.Pixels()[i] != parallel.Pixels()[i] {
			t.Fatalf("Pixel %d differs between 1 and 8 workers: %v vs %v",
				i, single.Pixels()[i], parallel.Pixels()[i])
		}
	}
}

func TestRaytracer_CanvasSizeMismatch(t *testing.T) {
	rt, err := NewRaytracer(testScene(8, 8, 1), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := rt.RenderSample(context.Background(), NewCanvas(4, 4)); err == nil {
		t.Error("Expected error for mismatched canvas size")
	}
}

func TestRaytracer_FinalizedCanvas(t *testing.T) {
	rt, err := NewRaytracer(testScene(4, 4, 1), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	canvas := rt.NewCanvas()
	if _, err := rt.Render(context.Background(), canvas); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := rt.Render(context.Background(), canvas); !errors.Is(err, ErrCanvasFinalized) {
		t.Errorf("Expected ErrCanvasFinalized, got %v", err)
	}
}

func TestRaytracer_Cancelled(t *testing.T) {
	rt, err := NewRaytracer(testScene(16, 16, 4), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	canvas := rt.NewCanvas()
	if _, err := rt.Render(ctx, canvas); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if canvas.Samples() != 0 {
		t.Errorf("Expected no completed samples, got %d", canvas.Samples())
	}
}

func TestNewRaytracer_InvalidConfig(t *testing.T) {
	sc := testScene(0, 10, 1)
	if _, err := NewRaytracer(sc, DefaultConfig(), nil); err == nil {
		t.Error("Expected error for zero width")
	}
}

func TestRaytracer_CameraIsCopied(t *testing.T) {
	sc := testScene(4, 4, 1)
	rt, err := NewRaytracer(sc, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rt.SetCamera(rt.Camera().Move(geometry.MoveForward, geometry.DefaultMoveStep))
	if sc.Camera.Origin != (core.Vec3{}) {
		t.Errorf("Expected scene camera to stay at origin, got %v", sc.Camera.Origin)
	}
}

func TestRenderScene_RGBSpheres(t *testing.T) {
	sc := scene.NewRGBScene()
	canvas := NewCanvas(80, 60)

	if err := RenderScene(context.Background(), canvas, sc.Camera, sc.Objects, 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if canvas.State() != CanvasFinalized {
		t.Fatalf("Expected finalized canvas, got %v", canvas.State())
	}

	tests := []struct {
		name    string
		x, y    int
		channel func(core.Color) (dominant, other1, other2 float64)
	}{
		{"red sphere", 8, 30, func(c core.Color) (float64, float64, float64) { return c.R, c.G, c.B }},
		{"green sphere", 40, 30, func(c core.Color) (float64, float64, float64) { return c.G, c.R, c.B }},
		{"blue sphere", 72, 30, func(c core.Color) (float64, float64, float64) { return c.B, c.R, c.G }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px := canvas.At(tt.x, tt.y)
			dominant, other1, other2 := tt.channel(px)
			if dominant <= other1 || dominant <= other2 {
				t.Errorf("Expected dominant channel at (%d,%d), got %v", tt.x, tt.y, px)
			}
			if px.A != 1 {
				t.Errorf("Expected alpha 1, got %f", px.A)
			}
		})
	}

	// Every tone-mapped channel stays inside [0,1)
	for i, px := range canvas.Pixels() {
		for _, c := range []float64{px.R, px.G, px.B} {
			if c < 0 || c >= 1 {
				t.Fatalf("Pixel %d out of range: %v", i, px)
			}
		}
	}
}

func TestRenderScene_ReusesCanvasAcrossFrames(t *testing.T) {
	sc := scene.NewRGBScene()
	canvas := NewCanvas(40, 30)

	if err := RenderScene(context.Background(), canvas, sc.Camera, sc.Objects, 2); err != nil {
		t.Fatalf("First frame: %v", err)
	}
	first := append([]core.Color(nil), canvas.Pixels()...)

	tests := []struct {
		name    string
		prepare func()
	}{
		{"after clear", canvas.Clear},
		{"without clear", func() {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepare()
			if err := RenderScene(context.Background(), canvas, sc.Camera, sc.Objects, 2); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if canvas.Samples() != 2 {
				t.Errorf("Expected 2 samples, got %d", canvas.Samples())
			}
			for i, px := range canvas.Pixels() {
				if px != first[i] {
					t.Fatalf("Pixel %d differs from the first frame: %v vs %v", i, px, first[i])
				}
			}
		})
	}
}

func TestRenderScene_ZeroSamples(t *testing.T) {
	sc := scene.NewRGBScene()
	err := RenderScene(context.Background(), NewCanvas(4, 4), sc.Camera, sc.Objects, 0)
	if err == nil {
		t.Error("Expected error for zero samples")
	}
}
