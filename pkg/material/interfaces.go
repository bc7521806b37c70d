package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Material describes how a surface scatters and emits light.
// Materials are immutable after construction and may be shared by many primitives.
type Material interface {
	// Scatter returns the attenuation and outgoing ray for an incoming ray,
	// or false when the ray is absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// Emitted returns the radiance emitted at the surface point
	Emitted(u, v float64, point core.Vec3) core.Vec3

	// IsLight reports whether primitives using this material are light sources
	IsLight() bool
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection.
// It is mutated in place during a nearest-hit search; T holds the best
// distance found so far.
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, facing against the incoming ray
	T         float64   // Parameter t along the ray
	U, V      float64   // Surface parametrization
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// NewHitRecord returns an empty record ready for a nearest-hit search
func NewHitRecord() HitRecord {
	return HitRecord{T: math.Inf(1)}
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// IsMatte reports whether m is a purely diffuse material
func IsMatte(m Material) bool {
	_, ok := m.(*Lambertian)
	return ok
}

// black is the emission of every non-emissive material
var black = core.Vec3{}
