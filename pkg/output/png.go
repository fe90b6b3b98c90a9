package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/Maksasj/nika/pkg/core"
)

// PNGSink writes PNG images
type PNGSink struct {
	w io.Writer
}

// NewPNGSink creates a PNG sink
func NewPNGSink(w io.Writer) *PNGSink {
	return &PNGSink{w: w}
}

// Write encodes the pixels as PNG. RGB8 is written opaque, RGBA8 keeps alpha and
// RGBA32F is stored with 16 bits per channel.
func (s *PNGSink) Write(width, height int, format PixelFormat, pixels []core.Color) error {
	if err := checkSize(width, height, pixels); err != nil {
		return err
	}
	img, err := ToImage(width, height, format, pixels)
	if err != nil {
		return err
	}
	return png.Encode(s.w, img)
}

// ToImage converts pixels into an image.Image with the precision of format
func ToImage(width, height int, format PixelFormat, pixels []core.Color) (image.Image, error) {
	if err := checkSize(width, height, pixels); err != nil {
		return nil, err
	}
	bounds := image.Rect(0, 0, width, height)

	switch format {
	case RGB8:
		img := image.NewRGBA(bounds)
		for i, p := range pixels {
			img.SetRGBA(i%width, i/width, color.RGBA{Quantize(p.R), Quantize(p.G), Quantize(p.B), 255})
		}
		return img, nil
	case RGBA8:
		img := image.NewNRGBA(bounds)
		for i, p := range pixels {
			img.SetNRGBA(i%width, i/width, color.NRGBA{Quantize(p.R), Quantize(p.G), Quantize(p.B), Quantize(p.A)})
		}
		return img, nil
	case RGBA32F:
		img := image.NewNRGBA64(bounds)
		for i, p := range pixels {
			img.SetNRGBA64(i%width, i/width, color.NRGBA64{quantize16(p.R), quantize16(p.G), quantize16(p.B), quantize16(p.A)})
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported pixel format %v", format)
	}
}

func quantize16(v float64) uint16 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return math.MaxUint16
	}
	return uint16(v * math.MaxUint16)
}
