package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each tile (64x64 recommended)
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel (0 = scene samples per pixel)
	MaxPasses          int // Maximum number of passes (0 = one sample per pass)
	NumWorkers         int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           DefaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: 0,
		MaxPasses:          0,
		NumWorkers:         0,
	}
}

// withDefaults resolves the zero values against the scene sample count
func (c ProgressiveConfig) withDefaults(sceneSamples int) ProgressiveConfig {
	if c.InitialSamples <= 0 {
		c.InitialSamples = 1
	}
	if c.MaxSamplesPerPixel <= 0 {
		c.MaxSamplesPerPixel = sceneSamples
	}
	c.InitialSamples = min(c.InitialSamples, c.MaxSamplesPerPixel)
	// Every pass after the first must add at least one sample
	maxUsefulPasses := c.MaxSamplesPerPixel - c.InitialSamples + 1
	if c.MaxPasses <= 0 || c.MaxPasses > maxUsefulPasses {
		c.MaxPasses = maxUsefulPasses
	}
	return c
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Canvas     *Canvas // Finalized snapshot; the renderer keeps accumulating
	Stats      RenderStats
	IsLast     bool
}

// ProgressiveRaytracer renders a scene in passes, producing a finalized image
// after every pass while samples keep accumulating underneath.
type ProgressiveRaytracer struct {
	config      ProgressiveConfig
	raytracer   *Raytracer
	canvas      *Canvas // Running accumulation, never finalized
	currentPass int
	elapsed     time.Duration
	logger      core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(sc *scene.Scene, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if logger == nil {
		logger = nopLogger{}
	}

	raytracer, err := NewRaytracer(sc, Config{TileSize: config.TileSize, NumWorkers: config.NumWorkers}, logger)
	if err != nil {
		return nil, err
	}

	return &ProgressiveRaytracer{
		config:    config.withDefaults(sc.SamplingConfig.SamplesPerPixel),
		raytracer: raytracer,
		canvas:    raytracer.NewCanvas(),
		logger:    logger,
	}, nil
}

// Config returns the resolved progressive configuration
func (pr *ProgressiveRaytracer) Config() ProgressiveConfig {
	return pr.config
}

// Camera returns the current camera
func (pr *ProgressiveRaytracer) Camera() geometry.Camera {
	return pr.raytracer.Camera()
}

// MoveCamera moves the camera one step and restarts accumulation.
// It must not be called while a pass is rendering.
func (pr *ProgressiveRaytracer) MoveCamera(direction geometry.MoveDirection) {
	pr.raytracer.SetCamera(pr.raytracer.Camera().Move(direction, geometry.DefaultMoveStep))
	pr.Reset()
}

// Reset discards all accumulated samples and starts again at pass 1
func (pr *ProgressiveRaytracer) Reset() {
	pr.canvas.Reset()
	pr.currentPass = 0
	pr.elapsed = 0
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}
	if passNumber <= 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	if passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}
	return pr.config.InitialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass renders the next pass and returns a finalized snapshot of the running average
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context) (PassResult, error) {
	passNumber := pr.currentPass + 1
	targetSamples := pr.getSamplesForPass(passNumber)
	start := time.Now()

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.raytracer.workerPool.GetNumWorkers())

	for pr.canvas.Samples() < targetSamples {
		if err := ctx.Err(); err != nil {
			return PassResult{}, err
		}
		if err := pr.raytracer.RenderSample(ctx, pr.canvas); err != nil {
			// A partial sample cannot be averaged; start over on the next pass
			pr.Reset()
			return PassResult{}, err
		}
	}

	snapshot, err := pr.canvas.Snapshot()
	if err != nil {
		return PassResult{}, err
	}

	pr.currentPass = passNumber
	passTime := time.Since(start)
	pr.elapsed += passTime

	pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
		passNumber, passTime, snapshot.Samples())

	return PassResult{
		PassNumber: passNumber,
		Canvas:     snapshot,
		Stats:      pr.raytracer.stats(snapshot, pr.elapsed),
		IsLast:     passNumber >= pr.config.MaxPasses || snapshot.Samples() >= pr.config.MaxSamplesPerPixel,
	}, nil
}

// RenderProgressive renders every pass on a separate goroutine, publishing each
// pass result in order. Both channels are closed when rendering stops; at most
// one error is sent.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pr.currentPass+1)
				errChan <- ctx.Err()
				return
			default:
			}

			result, err := pr.RenderPass(ctx)
			if err != nil {
				errChan <- err
				return
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if result.IsLast {
				pr.logger.Printf("Reached maximum samples per pixel (%d), stopping.\n", pr.config.MaxSamplesPerPixel)
				return
			}
		}
	}()

	return passChan, errChan
}
