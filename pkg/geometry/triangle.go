package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// triangleEpsilon rejects near-parallel rays and hits at the ray origin
const triangleEpsilon = 1e-7

// boundsPadding is the minimum thickness of a triangle's bounding box.
// An axis-aligned triangle would otherwise get a flat box, which the slab
// test treats as empty.
const boundsPadding = 1e-4

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices
	Material   material.Material // Material of the triangle
	normal     core.Vec3         // Cached unit normal, (V1-V0) × (V2-V0)
	bbox       core.AABB         // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
	}

	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = padBounds(core.NewAABBFromPoints(v0, v1, v2))

	return t
}

// padBounds grows any axis thinner than boundsPadding symmetrically
func padBounds(box core.AABB) core.AABB {
	size := box.Size()
	half := boundsPadding / 2
	if size.X < boundsPadding {
		box.Min.X -= half
		box.Max.X += half
	}
	if size.Y < boundsPadding {
		box.Min.Y -= half
		box.Max.Y += half
	}
	if size.Z < boundsPadding {
		box.Min.Z -= half
		box.Max.Z += half
	}
	return box
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	ab := t.V1.Subtract(t.V0)
	ac := t.V2.Subtract(t.V0)

	pvec := ray.Direction.Cross(ac)
	det := ab.Dot(pvec)

	// Ray lies in, or parallel to, the plane of the triangle
	if math.Abs(det) < triangleEpsilon {
		return false
	}
	invDet := 1.0 / det

	tvec := ray.Origin.Subtract(t.V0)
	u := tvec.Dot(pvec) * invDet
	if u < 0.0 || u > 1.0 {
		return false
	}

	qvec := tvec.Cross(ab)
	v := ray.Direction.Dot(qvec) * invDet
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	dist := ac.Dot(qvec) * invDet
	if dist <= triangleEpsilon || dist < tMin || dist > tMax {
		return false
	}

	// Keep whatever nearer hit the record already holds
	if dist >= rec.T {
		return false
	}

	rec.T = dist
	rec.Point = ray.At(dist)
	rec.U, rec.V = u, v
	rec.Material = t.Material
	rec.SetFaceNormal(ray, t.normal)

	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's unit geometric normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// IsLight reports whether the triangle's material emits
func (t *Triangle) IsLight() bool {
	return t.Material != nil && t.Material.IsLight()
}

// SamplePoint returns V0 + u·(V1-V0) + v·(V2-V0) for barycentric (u, v)
func (t *Triangle) SamplePoint(u, v float64) core.Vec3 {
	return t.V0.Add(t.V1.Subtract(t.V0).Multiply(u)).Add(t.V2.Subtract(t.V0).Multiply(v))
}

// SampleSurface warps the sample to u = √ξ₁, v = (1-u)·√ξ₂
func (t *Triangle) SampleSurface(sample core.Vec2) core.Vec3 {
	u := math.Sqrt(sample.X)
	v := (1 - u) * math.Sqrt(sample.Y)
	return t.SamplePoint(u, v)
}
