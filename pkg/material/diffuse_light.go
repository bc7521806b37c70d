package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// DiffuseLight is a pure emitter with constant radiance
type DiffuseLight struct {
	Emission core.Vec3 // Emitted light color/intensity
}

// NewDiffuseLight creates a new emissive material
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// Scatter never scatters; lights absorb every incoming ray
func (e *DiffuseLight) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emitted returns the constant emission regardless of surface position
func (e *DiffuseLight) Emitted(u, v float64, point core.Vec3) core.Vec3 {
	return e.Emission
}

// IsLight returns true
func (e *DiffuseLight) IsLight() bool {
	return true
}
