package renderer

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
)

var (
	// ErrInterrupted is returned with the partial framebuffer when the
	// render context is cancelled
	ErrInterrupted = errors.New("renderer: render interrupted")

	// ErrInvalidOptions is returned for options that cannot produce an image
	ErrInvalidOptions = errors.New("renderer: invalid options")
)

// Options configures a render
type Options struct {
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	Workers         int   // 0 uses DefaultWorkers
	Seed            int64 // Fixes every scanline's random stream

	// Integrator overrides the path tracer built from the fields below
	Integrator integrator.Integrator

	Sequence                  integrator.Sequence
	Mode                      integrator.Mode
	RussianRouletteMinBounces int

	Logger log.Logger
}

// DefaultOptions returns a 400 pixel wide 16:9 image at 10 samples and
// depth 50
func DefaultOptions() Options {
	return Options{
		Width:           400,
		Height:          400 * 9 / 16,
		SamplesPerPixel: 10,
		MaxDepth:        50,
	}
}

// Validate reports the first unusable option
func (o Options) Validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidOptions, o.Width, o.Height)
	case o.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidOptions, o.SamplesPerPixel)
	case o.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidOptions, o.MaxDepth)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

// integrator returns the configured integrator
func (o Options) integrator() integrator.Integrator {
	if o.Integrator != nil {
		return o.Integrator
	}
	return integrator.NewPathTracer(integrator.Config{
		MaxDepth:                  o.MaxDepth,
		SamplesPerPixel:           o.SamplesPerPixel,
		Sequence:                  o.Sequence,
		Mode:                      o.Mode,
		RussianRouletteMinBounces: o.RussianRouletteMinBounces,
	})
}

// DefaultWorkers returns the logical CPU count
func DefaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
