package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Maksasj/nika/pkg/core"
)

// ErrSizeMismatch is returned when the pixel slice does not match width*height
var ErrSizeMismatch = errors.New("pixel count does not match image size")

// PixelFormat is the layout pixels are converted to before encoding
type PixelFormat int

const (
	RGB8    PixelFormat = iota // 3 bytes per pixel
	RGBA8                      // 4 bytes per pixel
	RGBA32F                    // 4 little-endian float32 per pixel
)

// String returns the config name of the format
func (f PixelFormat) String() string {
	switch f {
	case RGB8:
		return "rgb8"
	case RGBA8:
		return "rgba8"
	case RGBA32F:
		return "rgba32f"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// BytesPerPixel returns the size of one converted pixel
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case RGB8:
		return 3
	case RGBA8:
		return 4
	case RGBA32F:
		return 16
	default:
		return 0
	}
}

// ParsePixelFormat converts a config name into a PixelFormat
func ParsePixelFormat(name string) (PixelFormat, error) {
	switch strings.ToLower(name) {
	case "rgb8", "rgb":
		return RGB8, nil
	case "rgba8", "rgba":
		return RGBA8, nil
	case "rgba32f", "float":
		return RGBA32F, nil
	default:
		return 0, fmt.Errorf("unknown pixel format %q (want rgb8, rgba8 or rgba32f)", name)
	}
}

// Sink consumes a finished image. Pixels are row-major, top row first.
type Sink interface {
	Write(width, height int, format PixelFormat, pixels []core.Color) error
}

// NewSink returns the sink for an image file kind ("ppm", "png" or "raw")
func NewSink(kind string, w io.Writer) (Sink, error) {
	switch strings.ToLower(kind) {
	case "ppm":
		return NewPPMSink(w), nil
	case "png":
		return NewPNGSink(w), nil
	case "raw":
		return NewRawSink(w), nil
	default:
		return nil, fmt.Errorf("unknown output kind %q (want ppm, png or raw)", kind)
	}
}

func checkSize(width, height int, pixels []core.Color) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrSizeMismatch, len(pixels), width, height)
	}
	return nil
}

// Quantize converts a channel to a byte, clamping to [0,1] and truncating
func Quantize(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// Encode converts pixels to the packed byte layout of format
func Encode(format PixelFormat, pixels []core.Color) ([]byte, error) {
	size := format.BytesPerPixel()
	if size == 0 {
		return nil, fmt.Errorf("unsupported pixel format %v", format)
	}

	buf := make([]byte, 0, len(pixels)*size)
	for _, p := range pixels {
		switch format {
		case RGB8:
			buf = append(buf, Quantize(p.R), Quantize(p.G), Quantize(p.B))
		case RGBA8:
			buf = append(buf, Quantize(p.R), Quantize(p.G), Quantize(p.B), Quantize(p.A))
		case RGBA32F:
			for _, c := range [4]float64{p.R, p.G, p.B, p.A} {
				buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(c)))
			}
		}
	}
	return buf, nil
}

// RawSink writes the packed pixel buffer with no header
type RawSink struct {
	w io.Writer
}

// NewRawSink creates a sink writing headerless packed pixels
func NewRawSink(w io.Writer) *RawSink {
	return &RawSink{w: w}
}

// Write encodes the pixels in format and writes them
func (s *RawSink) Write(width, height int, format PixelFormat, pixels []core.Color) error {
	if err := checkSize(width, height, pixels); err != nil {
		return err
	}
	buf, err := Encode(format, pixels)
	if err != nil {
		return err
	}
	_, err = s.w.Write(buf)
	return err
}
