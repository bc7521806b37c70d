package integrator

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sequence selects how matte bounce directions are drawn
type Sequence int

const (
	// SequenceRandom uses the material's own random scatter direction
	SequenceRandom Sequence = iota
	// SequenceFibonacci replaces matte bounces with the sample's point on a
	// jittered Fibonacci lattice around the scattered direction
	SequenceFibonacci
)

// Mode selects which estimators contribute to RayColor
type Mode int

const (
	ModeCombined Mode = iota // 0.5·direct + 0.5·indirect
	ModeIndirect
	ModeDirect
)

var (
	sequenceNames = map[Sequence]string{SequenceRandom: "random", SequenceFibonacci: "fibonacci"}
	modeNames     = map[Mode]string{ModeCombined: "combined", ModeIndirect: "indirect", ModeDirect: "direct"}
)

func (s Sequence) String() string {
	if name, ok := sequenceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sequence(%d)", int(s))
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseSequence maps "random" or "fibonacci" to a Sequence
func ParseSequence(name string) (Sequence, error) {
	for seq, n := range sequenceNames {
		if n == name {
			return seq, nil
		}
	}
	return SequenceRandom, fmt.Errorf("integrator: unknown sequence %q", name)
}

// ParseMode maps "combined", "indirect" or "direct" to a Mode
func ParseMode(name string) (Mode, error) {
	for mode, n := range modeNames {
		if n == name {
			return mode, nil
		}
	}
	return ModeCombined, fmt.Errorf("integrator: unknown mode %q", name)
}

const (
	// rayEpsilon is the minimum t for scene queries, avoiding self-intersection
	rayEpsilon = 0.001

	// shadowEpsilon trims both ends of a shadow segment, in units of its length
	shadowEpsilon = 1e-4
)

// Config holds the path tracer settings
type Config struct {
	MaxDepth        int // Maximum bounces; <= 0 makes every path black
	SamplesPerPixel int // Lattice size for SequenceFibonacci
	Sequence        Sequence
	Mode            Mode

	// RussianRouletteMinBounces enables throughput-based path termination
	// after this many bounces; 0 disables it
	RussianRouletteMinBounces int
}

// PathTracer combines an indirect bounce estimator with next-event
// estimation of direct light
type PathTracer struct {
	config Config
}

// NewPathTracer creates a new path tracer
func NewPathTracer(config Config) *PathTracer {
	return &PathTracer{config: config}
}

// Config returns the tracer settings
func (pt *PathTracer) Config() Config {
	return pt.config
}

// RayColor returns one radiance sample for the ray
func (pt *PathTracer) RayColor(ray core.Ray, world World, sampler core.Sampler, sampleIndex int) core.Vec3 {
	depth := pt.config.MaxDepth
	switch pt.config.Mode {
	case ModeIndirect:
		return pt.Indirect(ray, world, sampler, depth, sampleIndex)
	case ModeDirect:
		return pt.Direct(ray, world, sampler, depth, sampleIndex)
	}

	direct := pt.Direct(ray, world, sampler, depth, sampleIndex)
	indirect := pt.Indirect(ray, world, sampler, depth, sampleIndex)
	return direct.Multiply(0.5).Add(indirect.Multiply(0.5))
}

// Indirect follows scattered rays for up to depth bounces. Each surface adds
// its emission weighted by the product of attenuations so far; a miss adds
// the background and an absorbed ray ends the path.
func (pt *PathTracer) Indirect(ray core.Ray, world World, sampler core.Sampler, depth, sampleIndex int) core.Vec3 {
	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)

	for bounce := 0; bounce < depth; bounce++ {
		rec := material.NewHitRecord()
		if !world.Hit(ray, rayEpsilon, math.Inf(1), &rec) {
			return radiance.Add(throughput.MultiplyVec(world.BackgroundColor(ray)))
		}

		emitted := rec.Material.Emitted(rec.U, rec.V, rec.Point)
		radiance = radiance.Add(throughput.MultiplyVec(emitted))

		scatter, ok := rec.Material.Scatter(ray, rec, sampler)
		if !ok {
			return radiance
		}
		if pt.config.Sequence == SequenceFibonacci && material.IsMatte(rec.Material) {
			scatter.Scattered = pt.latticeBounce(scatter.Scattered, sampler, sampleIndex)
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		shouldTerminate, compensation := pt.applyRussianRoulette(bounce, throughput, sampler)
		if shouldTerminate {
			return radiance
		}
		throughput = throughput.Multiply(compensation)

		ray = scatter.Scattered
	}

	// Depth exhausted: the continuation contributes black
	return radiance
}

// latticeBounce swaps the scattered direction for the sample's Fibonacci
// lattice direction in a frame around it
func (pt *PathTracer) latticeBounce(scattered core.Ray, sampler core.Sampler, sampleIndex int) core.Ray {
	axis := scattered.Direction.Normalize()
	if axis.NearZero() {
		return scattered
	}
	n := pt.config.SamplesPerPixel
	if n <= 0 {
		n = 1
	}
	local := core.FibonacciDirection(sampleIndex, n, sampler.Get1D())
	return core.NewRay(scattered.Origin, core.NewONB(axis).LocalToWorld(local))
}

// applyRussianRoulette determines if a path should be terminated and returns
// the compensation factor for surviving paths
func (pt *PathTracer) applyRussianRoulette(bounce int, throughput core.Vec3, sampler core.Sampler) (bool, float64) {
	if pt.config.RussianRouletteMinBounces <= 0 || bounce < pt.config.RussianRouletteMinBounces {
		return false, 1.0
	}

	// Survival probability by luminance, between 5% and 95%
	survivalProb := math.Min(0.95, math.Max(0.05, throughput.Luminance()))
	if sampler.Get1D() > survivalProb {
		return true, 0.0
	}
	return false, 1.0 / survivalProb
}

// Direct estimates light arriving at the primary hit by sampling one light
// uniformly. Only matte surfaces use the light sample; other materials, and
// scenes without lights, fall back to Indirect.
func (pt *PathTracer) Direct(ray core.Ray, world World, sampler core.Sampler, depth, sampleIndex int) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	rec := material.NewHitRecord()
	if !world.Hit(ray, rayEpsilon, math.Inf(1), &rec) {
		return world.BackgroundColor(ray)
	}

	lights := world.LightList()
	if len(lights) == 0 {
		return pt.Indirect(ray, world, sampler, depth, sampleIndex)
	}

	emitted := rec.Material.Emitted(rec.U, rec.V, rec.Point)
	scatter, ok := rec.Material.Scatter(ray, rec, sampler)
	if !ok {
		return emitted
	}

	if !material.IsMatte(rec.Material) {
		// Same first bounce as Indirect from the primary ray, without re-tracing it
		continuation := pt.Indirect(scatter.Scattered, world, sampler, depth-1, sampleIndex)
		return emitted.Add(scatter.Attenuation.MultiplyVec(continuation))
	}

	index := int(sampler.Get1D() * float64(len(lights)))
	if index >= len(lights) {
		index = len(lights) - 1
	}
	lightPoint := lights[index].SampleSurface(sampler.Get2D())

	toLight := lightPoint.Subtract(rec.Point)
	if rec.Normal.Dot(toLight) <= 0 {
		return emitted
	}

	// Shadow segment from the light to the hit point, excluding both ends
	shadowRay := core.NewRay(lightPoint, rec.Point.Subtract(lightPoint))
	shadowRec := material.NewHitRecord()
	if world.Hit(shadowRay, shadowEpsilon, 1-shadowEpsilon, &shadowRec) {
		return emitted
	}

	return emitted.Add(scatter.Attenuation)
}
