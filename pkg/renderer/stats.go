package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels in the canvas
	TotalSamples    int           // Total number of pixel samples evaluated
	SamplesPerPixel int           // Samples accumulated into every pixel
	Tiles           int           // Number of tiles the image was split into
	Workers         int           // Number of parallel workers
	Elapsed         time.Duration // Wall time spent rendering
}

// SamplesPerSecond returns the pixel sample throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}

// AverageLuminance calculates the mean luminance over every pixel of the canvas
func AverageLuminance(canvas *Canvas) float64 {
	pixels := canvas.Pixels()
	if len(pixels) == 0 {
		return 0
	}

	var total float64
	for _, pixel := range pixels {
		total += pixel.Vec3().Luminance()
	}
	return total / float64(len(pixels))
}
