package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates the random sphere field: a large ground sphere,
// a grid of small jittered spheres with random materials, three feature
// spheres and a spherical light. The layout is fixed by seed.
func NewDefaultScene(seed int64, cameraOverrides ...camera.Config) (*Scene, error) {
	config := camera.Config{
		LookFrom:    core.NewVec3(13, 2, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 16.0 / 9.0,
		VFov:        20.0,
		Aperture:    0.1,
		// Focus on the feature spheres rather than the look-at point
		FocusDistance: 10.0,
	}
	if len(cameraOverrides) > 0 {
		config = camera.Merge(config, cameraOverrides[0])
	}

	random := rand.New(rand.NewSource(seed))
	between := func(lo, hi float64) float64 {
		return lo + (hi-lo)*random.Float64()
	}
	randomColor := func(lo, hi float64) core.Vec3 {
		return core.NewVec3(between(lo, hi), between(lo, hi), between(lo, hi))
	}

	prims := []geometry.Primitive{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	}

	glass := material.NewDielectric(1.5)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())

			// Keep clear of the large metal sphere
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				mat = material.NewLambertian(randomColor(0, 1).MultiplyVec(randomColor(0, 1)))
			case chooseMat < 0.95:
				mat = material.NewMetal(randomColor(0.5, 1), between(0, 0.5))
			default:
				mat = glass
			}
			prims = append(prims, geometry.NewSphere(center, 0.2, mat))
		}
	}

	prims = append(prims,
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
		SphereLight(core.NewVec3(30, 30.5, 15), 10, core.NewVec3(15.0, 14.0, 13.0)),
	)

	return New(prims, Options{
		Name:         "default",
		Background:   SkyGradient,
		CameraConfig: config,
		SamplingConfig: SamplingConfig{
			Width:           400,
			SamplesPerPixel: 10,
			MaxDepth:        50,
		},
	})
}
