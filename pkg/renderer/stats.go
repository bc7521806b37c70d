package renderer

import (
	"image"
	"math"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int
	Height          int
	Workers         int
	SamplesPerPixel int
	Rows            int           // Scanlines completed
	TotalSamples    int64         // Camera samples taken
	Rays            int64         // Scene intersection queries, shadow rays included
	InvalidSamples  int64         // Non-finite samples replaced with black
	Duration        time.Duration // Wall time
	Interrupted     bool

	AverageNoise     float64 // Mean per-pixel standard error of luminance
	AverageLuminance float64 // Mean luminance of the finalized image
}

// RaysPerSecond returns the scene query throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Rays) / s.Duration.Seconds()
}

// SamplesPerSecond returns the camera sample throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum    core.Vec3 // RGB accumulator for final result
	LuminanceMean float64   // Running mean luminance
	LuminanceM2   float64   // Sum of squared deviations from the running mean
	SampleCount   int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.SampleCount++
	delta := luminance - ps.LuminanceMean
	ps.LuminanceMean += delta / float64(ps.SampleCount)
	ps.LuminanceM2 += delta * (luminance - ps.LuminanceMean)
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// StandardError returns the standard error of the mean luminance
func (ps *PixelStats) StandardError() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	variance := ps.LuminanceM2 / (n - 1)
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance / n)
}

// AverageNoise returns the mean per-pixel standard error over rendered pixels
func (fb *Framebuffer) AverageNoise() float64 {
	total, count := 0.0, 0
	for i := range fb.Pixels {
		if fb.Pixels[i].SampleCount == 0 {
			continue
		}
		total += fb.Pixels[i].StandardError()
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image
// with channels normalized to [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/0xffff + 0.7152*float64(g)/0xffff + 0.0722*float64(b)/0xffff
		}
	}
	return total / float64(pixels)
}
