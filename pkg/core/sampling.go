package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms.
// Each render task owns its own Sampler; implementations are not safe for
// concurrent use.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewTaskSampler creates a sampler whose stream is fixed by the render seed
// and the task index, so parallel tasks never share generator state.
func NewTaskSampler(seed int64, task int) *RandomSampler {
	// splitmix-style mixing keeps neighbouring task seeds decorrelated
	z := uint64(seed) + uint64(task+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return NewRandomSampler(rand.New(rand.NewSource(int64(z))))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SamplePointInUnitSphere generates a random point inside a unit sphere
// using the inverse CDF method
func SamplePointInUnitSphere(sample Vec3) Vec3 {
	r := math.Cbrt(sample.X)
	phi := 2 * math.Pi * sample.Y
	cosTheta := 2*sample.Z - 1
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	return NewVec3(
		r*sinTheta*math.Cos(phi),
		r*sinTheta*math.Sin(phi),
		r*cosTheta,
	)
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return Vec3{}
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// ONB is an orthonormal basis with N as its third axis
type ONB struct {
	B1, B2, N Vec3
}

// NewONB builds a basis around the unit vector n without branching on its
// orientation. The sign of n.Z selects the frame, so n = (0,0,-1) is as well
// conditioned as n = (0,0,1).
func NewONB(n Vec3) ONB {
	sign := math.Copysign(1.0, n.Z)
	a := -1.0 / (sign + n.Z)
	b := n.X * n.Y * a
	return ONB{
		B1: NewVec3(1.0+sign*n.X*n.X*a, sign*b, -sign*n.X),
		B2: NewVec3(b, sign+n.Y*n.Y*a, -n.Y),
		N:  n,
	}
}

// LocalToWorld maps v from basis coordinates into world space
func (o ONB) LocalToWorld(v Vec3) Vec3 {
	return o.B1.Multiply(v.X).Add(o.B2.Multiply(v.Y)).Add(o.N.Multiply(v.Z))
}

// goldenRatio is the Fibonacci lattice increment
var goldenRatio = (math.Sqrt(5.0) + 1.0) / 2.0

// FibonacciDirection returns the i-th of n directions on a Fibonacci lattice
// over the +Z hemisphere. jitter in [0,1) rotates the lattice azimuthally.
func FibonacciDirection(i, n int, jitter float64) Vec3 {
	if n <= 0 {
		return NewVec3(0, 0, 1)
	}
	i = i % n
	cosTheta := 1.0 - (2.0*float64(i)+1.0)/(2.0*float64(n))
	x := (float64(i) + jitter) / goldenRatio
	phi := 2.0 * math.Pi * (x - math.Floor(x))
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	return NewVec3(math.Cos(phi)*sinTheta, math.Sin(phi)*sinTheta, cosTheta)
}
