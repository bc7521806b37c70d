package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// World is the read-only scene view an integrator traces against
type World interface {
	// Hit finds the nearest intersection in [tMin, tMax], recording it in rec
	Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool

	// LightList returns the emissive primitives, possibly empty
	LightList() []geometry.Primitive

	// BackgroundColor is the radiance carried by a ray that hits nothing
	BackgroundColor(ray core.Ray) core.Vec3
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray. sampleIndex is the
	// index of the current sample within its pixel.
	RayColor(ray core.Ray, world World, sampler core.Sampler, sampleIndex int) core.Vec3
}
