package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
)

var logger = log.New("scene")

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("scene: unknown scene")

// SamplingConfig holds the render settings a scene is tuned for
type SamplingConfig struct {
	Width           int // Image width
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// Options configures scene construction
type Options struct {
	Name           string
	Background     Background // nil selects black
	CameraConfig   camera.Config
	SamplingConfig SamplingConfig

	// LightsInBVH places emissive primitives inside the hierarchy instead of
	// keeping them in a flat list that is tested on every query
	LightsInBVH bool

	Logger log.Logger
}

// Scene is the read-only world a render traces against. It is safe for
// concurrent queries once New returns.
type Scene struct {
	Name           string
	Primitives     []geometry.Primitive // Objects in insertion order
	Lights         []geometry.Primitive // Emissive subset of Primitives
	Background     Background
	CameraConfig   camera.Config
	SamplingConfig SamplingConfig

	bvh     *geometry.BVH
	outside []geometry.Primitive
	logger  log.Logger
}

// New builds a scene over prims: it derives the light list by filtering on
// IsLight and builds the BVH. An error is returned if any primitive reports
// unusable bounds.
func New(prims []geometry.Primitive, opts Options) (*Scene, error) {
	l := opts.Logger
	if l == nil {
		l = logger
	}

	s := &Scene{
		Name:           opts.Name,
		Primitives:     prims,
		Background:     opts.Background,
		CameraConfig:   opts.CameraConfig,
		SamplingConfig: opts.SamplingConfig,
		logger:         l,
	}
	if s.Background == nil {
		s.Background = Constant{}
	}

	inner := make([]geometry.Primitive, 0, len(prims))
	for _, prim := range prims {
		if !prim.IsLight() {
			inner = append(inner, prim)
			continue
		}
		s.Lights = append(s.Lights, prim)
		if opts.LightsInBVH {
			inner = append(inner, prim)
		} else {
			s.outside = append(s.outside, prim)
		}
	}

	// Outside lights are scanned linearly, so their bounds are checked here
	for i, prim := range s.outside {
		box := prim.BoundingBox()
		if !box.IsFinite() {
			return nil, fmt.Errorf("scene %q: light %d: %w", s.Name, i, geometry.ErrNoPrimitiveBounds)
		}
	}

	start := time.Now()
	bvh, err := geometry.NewBVH(inner)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	s.bvh = bvh

	stats := bvh.Stats()
	l.Debugf("built BVH for %q in %s: %d primitives, %d nodes, max depth %d",
		s.Name, time.Since(start), stats.Primitives, stats.TotalNodes, stats.MaxDepth)

	return s, nil
}

// rebuild constructs a new scene over the same primitives with a different
// light placement
func (s *Scene) rebuild(lightsInBVH bool) (*Scene, error) {
	return New(s.Primitives, Options{
		Name:           s.Name,
		Background:     s.Background,
		CameraConfig:   s.CameraConfig,
		SamplingConfig: s.SamplingConfig,
		LightsInBVH:    lightsInBVH,
		Logger:         s.logger,
	})
}

// Hit finds the nearest intersection along the ray, recording it in rec
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	hitAnything := false
	if s.bvh.Hit(ray, tMin, tMax, rec) {
		hitAnything = true
		tMax = rec.T
	}
	for _, prim := range s.outside {
		if prim.Hit(ray, tMin, tMax, rec) {
			hitAnything = true
			tMax = rec.T
		}
	}
	return hitAnything
}

// LightList returns the emissive primitives
func (s *Scene) LightList() []geometry.Primitive {
	return s.Lights
}

// BackgroundColor returns the radiance for a ray that escapes the scene
func (s *Scene) BackgroundColor(ray core.Ray) core.Vec3 {
	return s.Background.Color(ray)
}

// BoundingBox returns the box around every primitive
func (s *Scene) BoundingBox() core.AABB {
	box := s.bvh.BoundingBox()
	first := s.bvh.Root == nil
	for _, prim := range s.outside {
		if first {
			box = prim.BoundingBox()
			first = false
			continue
		}
		box = box.Union(prim.BoundingBox())
	}
	return box
}

// Stats summarizes scene contents
type Stats struct {
	Primitives int
	Spheres    int
	Triangles  int
	Lights     int
	Outside    int // Lights tested outside the BVH
	BVH        geometry.BVHStats
}

// Stats returns counts of the scene contents and its BVH structure
func (s *Scene) Stats() Stats {
	stats := Stats{
		Primitives: len(s.Primitives),
		Lights:     len(s.Lights),
		Outside:    len(s.outside),
		BVH:        s.bvh.Stats(),
	}
	for _, prim := range s.Primitives {
		switch prim.(type) {
		case *geometry.Sphere:
			stats.Spheres++
		case *geometry.Triangle:
			stats.Triangles++
		}
	}
	return stats
}

// Quad returns the parallelogram corner, corner+u, corner+u+v, corner+v as
// two triangles whose normals follow u × v
func Quad(corner, u, v core.Vec3, mat material.Material) []geometry.Primitive {
	vertices := []core.Vec3{corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v)}
	mesh, err := geometry.NewTriangleMesh(vertices, []int{0, 1, 2, 0, 2, 3}, mat, nil)
	if err != nil {
		// fixed indices
		panic(err)
	}
	return mesh.Triangles
}

// QuadLight returns a rectangular area light
func QuadLight(corner, u, v core.Vec3, emission core.Vec3) []geometry.Primitive {
	return Quad(corner, u, v, material.NewDiffuseLight(emission))
}

// SphereLight returns a spherical light
func SphereLight(center core.Vec3, radius float64, emission core.Vec3) *geometry.Sphere {
	return geometry.NewSphere(center, radius, material.NewDiffuseLight(emission))
}
