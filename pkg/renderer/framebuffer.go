package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Framebuffer holds accumulated linear radiance, row-major with the top
// image row first. Each pixel is written by exactly one scanline task.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []PixelStats
	rows   []bool // Scanlines that completed
}

// NewFramebuffer allocates an empty framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]PixelStats, width*height),
		rows:   make([]bool, height),
	}
}

// At returns the accumulator for pixel (x, y), with y = 0 the top row
func (fb *Framebuffer) At(x, y int) *PixelStats {
	return &fb.Pixels[y*fb.Width+x]
}

// CompletedRows returns how many scanlines finished
func (fb *Framebuffer) CompletedRows() int {
	n := 0
	for _, done := range fb.rows {
		if done {
			n++
		}
	}
	return n
}

// RowComplete reports whether scanline y finished
func (fb *Framebuffer) RowComplete(y int) bool {
	return fb.rows[y]
}

// Finalize converts the accumulated radiance to 8-bit sRGB-ish output:
// average over samples, square-root gamma, clamp to [0, 0.999], scale by
// 256. Pixels without samples are black.
func (fb *Framebuffer) Finalize() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.At(x, y).GetColor()
			img.SetRGBA(x, y, color.RGBA{
				R: ToByte(c.X),
				G: ToByte(c.Y),
				B: ToByte(c.Z),
				A: 255,
			})
		}
	}
	return img
}

// ToByte applies gamma 2 and quantizes a linear channel value
func ToByte(linear float64) uint8 {
	if !(linear > 0) { // also catches NaN
		return 0
	}
	gamma := math.Sqrt(linear)
	return uint8(256 * math.Min(gamma, 0.999))
}

// Linear returns the averaged radiance for every pixel, top row first
func (fb *Framebuffer) Linear() []core.Vec3 {
	out := make([]core.Vec3, len(fb.Pixels))
	for i := range fb.Pixels {
		out[i] = fb.Pixels[i].GetColor()
	}
	return out
}
