package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestCalculateAverageLuminance(t *testing.T) {
	tests := []struct {
		name     string
		pixels   []color.RGBA
		expected float64
	}{
		// Rec. 709 weights sum to 1, so one pixel per primary plus black averages 0.25
		{"primaries and black", []color.RGBA{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}, {0, 0, 0, 255}}, 0.25},
		{"white", []color.RGBA{{255, 255, 255, 255}}, 1.0},
		{"green only", []color.RGBA{{0, 255, 0, 255}}, 0.7152},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, len(tt.pixels), 1))
			for x, c := range tt.pixels {
				img.SetRGBA(x, 0, c)
			}
			if got := CalculateAverageLuminance(img); math.Abs(got-tt.expected) > 1e-4 {
				t.Errorf("Expected average luminance %f, got %f", tt.expected, got)
			}
		})
	}

	if got := CalculateAverageLuminance(image.NewRGBA(image.Rect(0, 0, 0, 0))); got != 0 {
		t.Errorf("Expected 0 for an empty image, got %f", got)
	}
}

func TestFramebuffer_AverageNoise(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	if fb.AverageNoise() != 0 {
		t.Errorf("Expected no noise before sampling, got %f", fb.AverageNoise())
	}

	// A constant pixel has no spread; an alternating one does
	for i := 0; i < 4; i++ {
		fb.At(0, 0).AddSample(core.NewVec3(0.5, 0.5, 0.5))
		fb.At(1, 0).AddSample(core.NewVec3(float64(i%2), float64(i%2), float64(i%2)))
	}

	expected := fb.At(1, 0).StandardError() / 2
	if got := fb.AverageNoise(); math.Abs(got-expected) > 1e-12 || got <= 0 {
		t.Errorf("Expected average noise %f, got %f", expected, got)
	}
}

func TestRenderStats_Rates(t *testing.T) {
	stats := RenderStats{TotalSamples: 500, Rays: 2000, Duration: 2 * time.Second}
	if got := stats.RaysPerSecond(); got != 1000 {
		t.Errorf("Expected 1000 rays/s, got %f", got)
	}
	if got := stats.SamplesPerSecond(); got != 250 {
		t.Errorf("Expected 250 samples/s, got %f", got)
	}
	if got := (RenderStats{Rays: 10}).RaysPerSecond(); got != 0 {
		t.Errorf("Expected 0 for zero duration, got %f", got)
	}
}
