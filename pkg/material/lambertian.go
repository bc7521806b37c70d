package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Reflectance, each channel in [0,1]
}

// NewLambertian creates a new lambertian material.
// Albedo channels are clamped to [0,1] so a bounce never adds energy.
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo.Clamp(0, 1)}
}

// Scatter sends the ray toward a random point in the unit sphere tangent to
// the surface at the hit point, approximating a cosine distribution.
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := hit.Normal.Add(core.SamplePointInUnitSphere(sampler.Get3D()))

	// Catch degenerate scatter direction
	if direction.NearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: l.Albedo,
	}, true
}

// Emitted returns black
func (l *Lambertian) Emitted(u, v float64, point core.Vec3) core.Vec3 {
	return black
}

// IsLight returns false
func (l *Lambertian) IsLight() bool {
	return false
}
