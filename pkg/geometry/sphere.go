package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	// Nearest root in range first; never replace a nearer recorded hit
	inRange := func(root float64) bool {
		return root >= tMin && root <= tMax && root < rec.T
	}
	root := (-halfB - sqrtD) / a
	if !inRange(root) {
		root = (-halfB + sqrtD) / a
		if !inRange(root) {
			return false
		}
	}

	rec.T = root
	rec.Point = ray.At(root)
	rec.Material = s.Material

	outwardNormal := rec.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	rec.SetFaceNormal(ray, outwardNormal)
	rec.U, rec.V = sphereUV(outwardNormal)

	return true
}

// sphereUV maps a point on the unit sphere to (u, v) in [0,1]²
func sphereUV(p core.Vec3) (float64, float64) {
	theta := math.Acos(math.Max(-1, math.Min(1, -p.Y)))
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return phi / (2 * math.Pi), theta / math.Pi
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := math.Abs(s.Radius)
	radius := core.NewVec3(r, r, r)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// IsLight reports whether the sphere's material emits
func (s *Sphere) IsLight() bool {
	return s.Material != nil && s.Material.IsLight()
}

// SamplePoint returns the surface point at azimuth 2πu and z = 1-2v,
// which is uniform over the surface for uniform (u, v)
func (s *Sphere) SamplePoint(u, v float64) core.Vec3 {
	return s.Center.Add(core.SampleOnUnitSphere(core.NewVec2(v, u)).Multiply(math.Abs(s.Radius)))
}

// SampleSurface samples the sphere uniformly by area
func (s *Sphere) SampleSurface(sample core.Vec2) core.Vec3 {
	return s.SamplePoint(sample.X, sample.Y)
}
