package output

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/png"
	"math"
	"testing"

	"github.com/Maksasj/nika/pkg/core"
)

func testPixels() []core.Color {
	return []core.Color{
		core.NewColor(1, 0, 0, 1),
		core.NewColor(0, 0.5, 0, 0.5),
		core.NewColor(0, 0, 2, 1),
		core.NewColor(-1, 0.25, math.NaN(), 0),
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		input    float64
		expected uint8
	}{
		{0, 0},
		{1, 255},
		{0.5, 127},
		{-0.3, 0},
		{1.7, 255},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := Quantize(tt.input); got != tt.expected {
			t.Errorf("Quantize(%f) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestEncode_Layouts(t *testing.T) {
	pixels := testPixels()

	rgb, err := Encode(RGB8, pixels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expectedRGB := []byte{255, 0, 0, 0, 127, 0, 0, 0, 255, 0, 63, 0}
	if !bytes.Equal(rgb, expectedRGB) {
		t.Errorf("RGB8: expected %v, got %v", expectedRGB, rgb)
	}

	rgba, err := Encode(RGBA8, pixels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rgba) != 16 || rgba[3] != 255 || rgba[7] != 127 || rgba[15] != 0 {
		t.Errorf("RGBA8: unexpected bytes %v", rgba)
	}

	float, err := Encode(RGBA32F, pixels)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(float) != 64 {
		t.Fatalf("RGBA32F: expected 64 bytes, got %d", len(float))
	}
	// Second pixel green channel, unclamped float
	g := math.Float32frombits(binary.LittleEndian.Uint32(float[20:24]))
	if g != 0.5 {
		t.Errorf("RGBA32F: expected green 0.5, got %f", g)
	}
	// Third pixel blue keeps the out-of-range value
	b := math.Float32frombits(binary.LittleEndian.Uint32(float[40:44]))
	if b != 2 {
		t.Errorf("RGBA32F: expected blue 2, got %f", b)
	}
}

func TestParsePixelFormat(t *testing.T) {
	tests := []struct {
		input       string
		expected    PixelFormat
		expectError bool
	}{
		{"rgb8", RGB8, false},
		{"RGBA8", RGBA8, false},
		{"rgba32f", RGBA32F, false},
		{"float", RGBA32F, false},
		{"bgr", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePixelFormat(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPPMSink(t *testing.T) {
	for _, format := range []PixelFormat{RGB8, RGBA8, RGBA32F} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewPPMSink(&buf).Write(2, 2, format, testPixels()); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			header := "P6\n2 2\n255\n"
			out := buf.Bytes()
			if !bytes.HasPrefix(out, []byte(header)) {
				t.Fatalf("Expected header %q, got %q", header, out[:min(len(out), len(header))])
			}

			// Every format is written as RGB triples
			body := out[len(header):]
			expected := []byte{255, 0, 0, 0, 127, 0, 0, 0, 255, 0, 63, 0}
			if !bytes.Equal(body, expected) {
				t.Errorf("Expected body %v, got %v", expected, body)
			}
		})
	}
}

func TestPNGSink_RoundTrip(t *testing.T) {
	tests := []struct {
		format        PixelFormat
		expectedAlpha uint32
	}{
		{RGB8, 0xffff},
		{RGBA8, 0x7f7f},
		{RGBA32F, 0x7fff},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewPNGSink(&buf).Write(2, 2, tt.format, testPixels()); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("Failed to decode PNG: %v", err)
			}
			if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
				t.Fatalf("Unexpected bounds %v", img.Bounds())
			}

			r, _, _, a := img.At(0, 0).RGBA()
			if r != 0xffff || a != 0xffff {
				t.Errorf("Expected opaque red at (0,0), got r=%x a=%x", r, a)
			}

			// Second pixel carries the half alpha unless the format drops it
			_, _, _, a = img.At(1, 0).RGBA()
			if a != tt.expectedAlpha {
				t.Errorf("Expected alpha %x at (1,0), got %x", tt.expectedAlpha, a)
			}
		})
	}
}

func TestSink_SizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	sinks := map[string]Sink{
		"ppm": NewPPMSink(&buf),
		"png": NewPNGSink(&buf),
		"raw": NewRawSink(&buf),
	}

	for name, sink := range sinks {
		t.Run(name, func(t *testing.T) {
			err := sink.Write(3, 3, RGB8, testPixels())
			if !errors.Is(err, ErrSizeMismatch) {
				t.Errorf("Expected ErrSizeMismatch, got %v", err)
			}
		})
	}
}

func TestNewSink(t *testing.T) {
	var buf bytes.Buffer
	for _, kind := range []string{"ppm", "PNG", "raw"} {
		if _, err := NewSink(kind, &buf); err != nil {
			t.Errorf("Unexpected error for %q: %v", kind, err)
		}
	}
	if _, err := NewSink("jpeg", &buf); err == nil {
		t.Error("Expected error for unsupported kind")
	}
}

func TestRawSink(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRawSink(&buf).Write(2, 2, RGBA8, testPixels()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if buf.Len() != 16 {
		t.Errorf("Expected 16 bytes, got %d", buf.Len())
	}
}
