package scene

import (
	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box built from triangles with a
// triangle area light under the ceiling
func NewCornellScene(cameraOverrides ...camera.Config) (*Scene, error) {
	config := camera.Config{
		LookFrom:    core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:      core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0, // Square aspect ratio for Cornell box
		VFov:        40.0,
	}
	if len(cameraOverrides) > 0 {
		config = camera.Merge(config, cameraOverrides[0])
	}

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	// Standard 555x555x555 box
	boxSize := 555.0
	x := core.NewVec3(boxSize, 0, 0)
	y := core.NewVec3(0, boxSize, 0)
	z := core.NewVec3(0, 0, boxSize)

	var prims []geometry.Primitive
	prims = append(prims, Quad(core.NewVec3(0, 0, 0), x, z, white)...)       // floor
	prims = append(prims, Quad(core.NewVec3(0, boxSize, 0), x, z, white)...) // ceiling
	prims = append(prims, Quad(core.NewVec3(0, 0, boxSize), x, y, white)...) // back
	prims = append(prims, Quad(core.NewVec3(0, 0, 0), z, y, red)...)         // left
	prims = append(prims, Quad(core.NewVec3(boxSize, 0, 0), y, z, green)...) // right

	// Ceiling light, slightly below the ceiling
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	prims = append(prims, QuadLight(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(15.0, 15.0, 15.0),
	)...)

	prims = append(prims,
		geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0)),
		geometry.NewSphere(core.NewVec3(370, 90, 351), 90, material.NewDielectric(1.5)),
	)

	return New(prims, Options{
		Name:         "cornell",
		Background:   Constant{}, // black
		CameraConfig: config,
		SamplingConfig: SamplingConfig{
			Width:           400,
			SamplesPerPixel: 150,
			MaxDepth:        40,
		},
	})
}
