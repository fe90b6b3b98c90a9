package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Maksasj/nika/pkg/core"
)

// PPMSink writes binary PPM (P6) images
type PPMSink struct {
	w io.Writer
}

// NewPPMSink creates a PPM sink
func NewPPMSink(w io.Writer) *PPMSink {
	return &PPMSink{w: w}
}

// Write emits the "P6\n<w> <h>\n255\n" header followed by 8-bit RGB triples.
// PPM has no alpha channel; every format is reduced to RGB8.
func (s *PPMSink) Write(width, height int, format PixelFormat, pixels []core.Color) error {
	if err := checkSize(width, height, pixels); err != nil {
		return err
	}
	if format.BytesPerPixel() == 0 {
		return fmt.Errorf("unsupported pixel format %v", format)
	}

	bw := bufio.NewWriter(s.w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for _, p := range pixels {
		if _, err := bw.Write([]byte{Quantize(p.R), Quantize(p.G), Quantize(p.B)}); err != nil {
			return err
		}
	}
	return bw.Flush()
}
