package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/integrator"
	"github.com/Maksasj/nika/pkg/scene"
)

// Config contains driver settings that do not change the rendered image
type Config struct {
	TileSize   int // Edge length of square tiles in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:   DefaultTileSize,
		NumWorkers: 0,
	}
}

// Raytracer accumulates full-frame samples of a scene into a canvas
type Raytracer struct {
	camera     geometry.Camera
	objects    []scene.Object
	sampling   scene.SamplingConfig
	integrator integrator.Integrator
	tiles      []*Tile
	workerPool *WorkerPool
	logger     core.Logger
}

// NewRaytracer creates a raytracer for the scene.
// The camera is copied, so moving it later does not modify the scene.
func NewRaytracer(sc *scene.Scene, config Config, logger core.Logger) (*Raytracer, error) {
	if err := sc.SamplingConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampling config: %w", err)
	}
	if logger == nil {
		logger = nopLogger{}
	}

	camera := geometry.Camera{}
	if sc.Camera != nil {
		camera = *sc.Camera
	}

	sampling := sc.SamplingConfig
	return &Raytracer{
		camera:     camera,
		objects:    sc.Objects,
		sampling:   sampling,
		integrator: integrator.NewPathTracingIntegrator(sampling),
		tiles:      NewTileGrid(sampling.Width, sampling.Height, config.TileSize, sampling.Seed),
		workerPool: NewWorkerPool(config.NumWorkers),
		logger:     logger,
	}, nil
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(i integrator.Integrator) {
	rt.integrator = i
}

// Camera returns the camera primary rays are generated from
func (rt *Raytracer) Camera() geometry.Camera {
	return rt.camera
}

// SetCamera replaces the camera. It must not be called during a render.
func (rt *Raytracer) SetCamera(camera geometry.Camera) {
	rt.camera = camera
}

// SamplingConfig returns the sampling settings the raytracer renders with
func (rt *Raytracer) SamplingConfig() scene.SamplingConfig {
	return rt.sampling
}

// NewCanvas creates an accumulation canvas matching the render size
func (rt *Raytracer) NewCanvas() *Canvas {
	return NewCanvas(rt.sampling.Width, rt.sampling.Height)
}

// TracePixel evaluates one sample for pixel (x, y)
func (rt *Raytracer) TracePixel(x, y int, sampler core.Sampler) core.Color {
	return rt.integrator.TracePixel(&rt.camera, x, y, rt.sampling.Width, rt.sampling.Height, rt.objects, sampler)
}

// RenderSample adds one sample for every pixel to the canvas.
// If an error is returned the canvas holds a partial sample and must be Reset.
func (rt *Raytracer) RenderSample(ctx context.Context, canvas *Canvas) error {
	if canvas.Width != rt.sampling.Width || canvas.Height != rt.sampling.Height {
		return fmt.Errorf("canvas is %dx%d, render size is %dx%d",
			canvas.Width, canvas.Height, rt.sampling.Width, rt.sampling.Height)
	}
	if err := canvas.BeginSample(); err != nil {
		return err
	}

	err := rt.workerPool.Run(ctx, rt.tiles, func(ctx context.Context, tile *Tile) error {
		return rt.renderTile(ctx, canvas, tile)
	})
	if err != nil {
		return err
	}

	canvas.EndSample()
	return nil
}

// renderTile adds one sample for every pixel inside the tile bounds.
// Tiles never overlap, so workers write to the canvas without locking.
func (rt *Raytracer) renderTile(ctx context.Context, canvas *Canvas, tile *Tile) error {
	bounds := tile.Bounds
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			canvas.accumulate(x, y, rt.TracePixel(x, y, tile.Sampler))
		}
	}
	tile.SamplesRendered++
	return nil
}

// Render accumulates SamplesPerPixel samples into the canvas and finalizes it
func (rt *Raytracer) Render(ctx context.Context, canvas *Canvas) (RenderStats, error) {
	start := time.Now()
	samples := rt.sampling.SamplesPerPixel

	rt.logger.Printf("Rendering %dx%d with %d samples per pixel (%d tiles, %d workers)...\n",
		rt.sampling.Width, rt.sampling.Height, samples, len(rt.tiles), rt.workerPool.GetNumWorkers())

	for sample := 0; sample < samples; sample++ {
		if err := ctx.Err(); err != nil {
			rt.logger.Printf("Rendering cancelled after %d samples\n", sample)
			return RenderStats{}, err
		}
		if err := rt.RenderSample(ctx, canvas); err != nil {
			return RenderStats{}, err
		}
	}

	if err := canvas.Finalize(); err != nil {
		return RenderStats{}, err
	}

	stats := rt.stats(canvas, time.Since(start))
	rt.logger.Printf("Render completed in %v (%.0f samples/s, average luminance %.3f)\n",
		stats.Elapsed, stats.SamplesPerSecond(), AverageLuminance(canvas))
	return stats, nil
}

func (rt *Raytracer) stats(canvas *Canvas, elapsed time.Duration) RenderStats {
	pixels := canvas.Width * canvas.Height
	return RenderStats{
		TotalPixels:     pixels,
		TotalSamples:    pixels * canvas.Samples(),
		SamplesPerPixel: canvas.Samples(),
		Tiles:           len(rt.tiles),
		Workers:         rt.workerPool.GetNumWorkers(),
		Elapsed:         elapsed,
	}
}

// RenderScene renders sampleCount samples of the objects seen from camera into
// canvas and finalizes it. The image size is taken from the canvas; sky, bounce
// limit, sampling mode and seed use scene.DefaultSamplingConfig.
func RenderScene(ctx context.Context, canvas *Canvas, camera *geometry.Camera, objects []scene.Object, sampleCount int) error {
	sampling := scene.DefaultSamplingConfig()
	sampling.Width = canvas.Width
	sampling.Height = canvas.Height
	sampling.SamplesPerPixel = sampleCount

	sc := &scene.Scene{
		Camera:         camera,
		Objects:        objects,
		SamplingConfig: sampling,
	}

	rt, err := NewRaytracer(sc, DefaultConfig(), nil)
	if err != nil {
		return err
	}

	// Every call renders a whole frame, so the canvas can be reused across frames
	canvas.Reset()
	_, err = rt.Render(ctx, canvas)
	return err
}

// nopLogger discards all output
type nopLogger struct{}

func (nopLogger) Printf(format string, args ...interface{}) {}
