package renderer

import (
	"context"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
)

var logger = log.New("renderer")

// RayGenerator maps image coordinates in [0,1]², (0,0) at the bottom left,
// to a camera ray. The sampler supplies lens samples.
type RayGenerator interface {
	GetRay(s, t float64, sampler core.Sampler) core.Ray
}

// renderJob is the shared read-only state of one render, plus the
// framebuffer whose rows are partitioned among workers
type renderJob struct {
	world      integrator.World
	camera     RayGenerator
	integrator integrator.Integrator
	opts       Options
	fb         *Framebuffer
}

// scanlineTracer renders rows for a single worker
type scanlineTracer struct {
	job   *renderJob
	world *countingWorld
}

// renderRow accumulates every sample of row y. The row's random stream is
// derived from the seed and the row index, so output does not depend on
// which worker runs it.
func (st *scanlineTracer) renderRow(y int) ScanlineResult {
	job := st.job
	width, height := job.fb.Width, job.fb.Height
	spp := job.opts.SamplesPerPixel

	sampler := core.NewTaskSampler(job.opts.Seed, y)
	startRays := st.world.rays

	// Rows count up from the bottom in camera space
	j := float64(height - 1 - y)
	uScale := float64(max(width-1, 1))
	vScale := float64(max(height-1, 1))

	result := ScanlineResult{Row: y}
	for x := 0; x < width; x++ {
		pixel := job.fb.At(x, y)
		for s := 0; s < spp; s++ {
			jitter := sampler.Get2D()
			u := (float64(x) + jitter.X) / uScale
			v := (j + jitter.Y) / vScale

			ray := job.camera.GetRay(u, v, sampler)
			color := job.integrator.RayColor(ray, st.world, sampler, s)
			if !color.IsFinite() {
				color = core.Vec3{}
				result.Invalid++
			}
			pixel.AddSample(color)
		}
	}

	job.fb.rows[y] = true
	result.Samples = int64(width) * int64(spp)
	result.Rays = st.world.rays - startRays
	return result
}

// Render traces every pixel of the image over a pool of scanline workers.
// On cancellation it returns the rows finished so far with ErrInterrupted.
func Render(ctx context.Context, world integrator.World, camera RayGenerator, opts Options) (*Framebuffer, RenderStats, error) {
	if err := opts.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	l := opts.Logger
	if l == nil {
		l = logger
	}

	start := time.Now()
	job := &renderJob{
		world:      world,
		camera:     camera,
		integrator: opts.integrator(),
		opts:       opts,
		fb:         NewFramebuffer(opts.Width, opts.Height),
	}

	pool := NewWorkerPool(job, opts.Workers)
	stats := RenderStats{
		Width:           opts.Width,
		Height:          opts.Height,
		Workers:         pool.NumWorkers(),
		SamplesPerPixel: opts.SamplesPerPixel,
	}
	l.Infof("rendering %dx%d at %d spp, depth %d, %d workers",
		opts.Width, opts.Height, opts.SamplesPerPixel, opts.MaxDepth, stats.Workers)

	pool.Start(ctx)
	for y := 0; y < opts.Height; y++ {
		pool.SubmitTask(ScanlineTask{Row: y})
	}

	step := max(opts.Height/10, 1)
	for received := 0; received < opts.Height; received++ {
		result, _ := pool.GetResult()
		if result.Skipped {
			continue
		}
		stats.Rows++
		stats.TotalSamples += result.Samples
		stats.Rays += result.Rays
		stats.InvalidSamples += result.Invalid
		if stats.Rows%step == 0 {
			l.Infof("scanlines remaining: %d", opts.Height-stats.Rows)
		}
	}
	pool.Stop()

	stats.Duration = time.Since(start)
	stats.AverageNoise = job.fb.AverageNoise()
	stats.AverageLuminance = CalculateAverageLuminance(job.fb.Finalize())
	if stats.InvalidSamples > 0 {
		l.Warningf("%d non-finite samples replaced with black", stats.InvalidSamples)
	}

	if ctx.Err() != nil && stats.Rows < opts.Height {
		stats.Interrupted = true
		l.Noticef("render interrupted after %d of %d scanlines", stats.Rows, opts.Height)
		return job.fb, stats, ErrInterrupted
	}

	l.Infof("rendered in %s (%.0f rays/s)", stats.Duration, stats.RaysPerSecond())
	return job.fb, stats, nil
}
