package geometry

import (
	"errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

var (
	// ErrNoPrimitiveBounds is returned when a primitive cannot produce a finite bounding box
	ErrNoPrimitiveBounds = errors.New("geometry: primitive has no finite bounding box")

	// ErrInvalidBounds is returned when a primitive bounding box has min > max on some axis
	ErrInvalidBounds = errors.New("geometry: primitive bounding box is inverted")
)

// Hittable is anything a ray can be intersected against.
//
// Hit only overwrites rec when it finds an intersection nearer than rec.T, so
// one record can be reused across a sequence of candidates. Start a search
// with material.NewHitRecord().
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool
	BoundingBox() core.AABB
}

// Primitive is a leaf shape with a material attached
type Primitive interface {
	Hittable

	// IsLight reports whether the primitive emits light
	IsLight() bool

	// SamplePoint maps surface parameters (u, v) to a point on the surface
	SamplePoint(u, v float64) core.Vec3

	// SampleSurface maps a canonical 2D sample to a surface point using the
	// shape's own light sampling rule
	SampleSurface(sample core.Vec2) core.Vec3
}
