package renderer

import (
	"errors"
	"fmt"

	"github.com/Maksasj/nika/pkg/core"
)

var (
	// ErrCanvasFinalized is returned when accumulating into a finalized canvas
	ErrCanvasFinalized = errors.New("canvas is finalized; reset it before accumulating")
	// ErrNoSamples is returned when finalizing a canvas that holds no samples
	ErrNoSamples = errors.New("canvas has no accumulated samples")
)

// CanvasState is the accumulation state of a canvas
type CanvasState int

const (
	// CanvasAccumulating accepts samples
	CanvasAccumulating CanvasState = iota
	// CanvasFinalized holds averaged pixels and rejects further samples
	CanvasFinalized
)

// String returns the name of the state
func (s CanvasState) String() string {
	switch s {
	case CanvasAccumulating:
		return "accumulating"
	case CanvasFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("CanvasState(%d)", int(s))
	}
}

// Canvas is a width x height buffer of linear colors, stored row-major from the top row.
// Samples are summed into it and divided by the sample count on Finalize.
// Concurrent Add calls are safe only for disjoint pixels.
type Canvas struct {
	Width   int
	Height  int
	pixels  []core.Color
	samples int
	state   CanvasState
}

// NewCanvas creates an empty canvas ready for accumulation
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		pixels: make([]core.Color, width*height),
	}
}

// State returns the current accumulation state
func (c *Canvas) State() CanvasState {
	return c.state
}

// Samples returns the number of completed samples
func (c *Canvas) Samples() int {
	return c.samples
}

// At returns the pixel at (x, y)
func (c *Canvas) At(x, y int) core.Color {
	return c.pixels[y*c.Width+x]
}

// Pixels returns the underlying row-major buffer
func (c *Canvas) Pixels() []core.Color {
	return c.pixels
}

// Add sums color into pixel (x, y)
func (c *Canvas) Add(x, y int, color core.Color) error {
	if c.state == CanvasFinalized {
		return ErrCanvasFinalized
	}
	c.accumulate(x, y, color)
	return nil
}

// accumulate adds without the state check; callers check once per sample
func (c *Canvas) accumulate(x, y int, color core.Color) {
	i := y*c.Width + x
	c.pixels[i] = c.pixels[i].Add(color)
}

// BeginSample checks that the canvas can take another sample.
// The first sample of a pass starts from zero, dropping whatever Clear left for display.
func (c *Canvas) BeginSample() error {
	if c.state == CanvasFinalized {
		return ErrCanvasFinalized
	}
	if c.samples == 0 {
		clear(c.pixels)
	}
	return nil
}

// EndSample records that every pixel received one more sample
func (c *Canvas) EndSample() {
	c.samples++
}

// Merge adds another accumulating canvas of the same size into this one
func (c *Canvas) Merge(other *Canvas) error {
	if c.state == CanvasFinalized || other.state == CanvasFinalized {
		return ErrCanvasFinalized
	}
	if c.Width != other.Width || c.Height != other.Height {
		return fmt.Errorf("cannot merge %dx%d canvas into %dx%d canvas", other.Width, other.Height, c.Width, c.Height)
	}
	for i := range c.pixels {
		c.pixels[i] = c.pixels[i].Add(other.pixels[i])
	}
	c.samples += other.samples
	return nil
}

// Finalize divides every channel by the sample count
func (c *Canvas) Finalize() error {
	if c.state == CanvasFinalized {
		return ErrCanvasFinalized
	}
	if c.samples == 0 {
		return ErrNoSamples
	}

	n := float64(c.samples)
	for i := range c.pixels {
		c.pixels[i] = c.pixels[i].Divide(n)
	}
	c.state = CanvasFinalized
	return nil
}

// Snapshot returns a finalized copy of the current average, leaving c untouched
func (c *Canvas) Snapshot() (*Canvas, error) {
	snapshot := &Canvas{
		Width:   c.Width,
		Height:  c.Height,
		pixels:  make([]core.Color, len(c.pixels)),
		samples: c.samples,
	}
	copy(snapshot.pixels, c.pixels)

	if c.state == CanvasFinalized {
		snapshot.state = CanvasFinalized
		return snapshot, nil
	}
	if err := snapshot.Finalize(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Reset zeroes every channel and returns the canvas to the accumulating state
func (c *Canvas) Reset() {
	clear(c.pixels)
	c.samples = 0
	c.state = CanvasAccumulating
}

// Clear fills the canvas with opaque black and readies it for a new pass
func (c *Canvas) Clear() {
	for i := range c.pixels {
		c.pixels[i] = core.Black
	}
	c.samples = 0
	c.state = CanvasAccumulating
}
