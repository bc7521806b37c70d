package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a grid of spheres cycling through metal, glass
// and diffuse materials under a triangle area light
func NewSphereGridScene(gridSize int, cameraOverrides ...camera.Config) (*Scene, error) {
	config := camera.Config{
		LookFrom:    core.NewVec3(4.5, 6, 18),
		LookAt:      core.NewVec3(4.5, 0.8, 4.5), // Center of grid, slightly lower
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
		Aperture:    0.02,
	}
	if len(cameraOverrides) > 0 {
		config = camera.Merge(config, cameraOverrides[0])
	}
	if gridSize < 2 {
		gridSize = 2
	}

	var prims []geometry.Primitive

	// Large finite ground so the BVH gets finite bounds
	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	prims = append(prims, Quad(core.NewVec3(-50, 0, -50), core.NewVec3(0, 0, 100), core.NewVec3(100, 0, 0), ground)...)

	prims = append(prims, QuadLight(
		core.NewVec3(2, 8, 2),
		core.NewVec3(5, 0, 0),
		core.NewVec3(0, 0, 5),
		core.NewVec3(6.0, 5.8, 5.5),
	)...)

	// Fit the grid into roughly 9x9 units around x=z=4.5
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	glass := material.NewDielectric(1.5)
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, radius, z)

			// Hue across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := 0.05 + (float64(j)/float64(gridSize-1))*0.20
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			var mat material.Material
			switch (i + j) % 3 {
			case 0:
				mat = material.NewMetal(color, 0.05+0.05*float64(i%3))
			case 1:
				mat = glass
			default:
				mat = material.NewLambertian(color)
			}
			prims = append(prims, geometry.NewSphere(position, radius, mat))
		}
	}

	return New(prims, Options{
		Name:         "spheregrid",
		Background:   SkyGradient,
		CameraConfig: config,
		SamplingConfig: SamplingConfig{
			Width:           800,
			SamplesPerPixel: 100,
			MaxDepth:        40,
		},
	})
}
