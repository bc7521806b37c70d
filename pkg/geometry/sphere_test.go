package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

var grey = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, grey)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	rec := material.NewHitRecord()
	if sphere.Hit(ray, 0.001, 1000.0, &rec) {
		t.Errorf("Expected miss, but got hit at t=%f", rec.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, grey)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			rec := material.NewHitRecord()
			if !sphere.Hit(ray, 0.001, 1000.0, &rec) {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(rec.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, rec.T)
			}
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, rec.Normal)
			}
			if rec.Material != grey {
				t.Error("Expected hit record to carry the sphere material")
			}
		})
	}
}

func TestSphere_Hit_ClosestIntersection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1.0, grey)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name      string
		tMin      float64
		tMax      float64
		recordT   float64
		shouldHit bool
		expectedT float64
	}{
		{"near root", 0.001, 100, math.Inf(1), true, 4},
		{"far root when near excluded", 4.5, 100, math.Inf(1), true, 6},
		{"both roots beyond tMax", 0.001, 3, math.Inf(1), false, 0},
		{"nearer record kept", 0.001, 100, 2, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := material.NewHitRecord()
			rec.T = tt.recordT
			isHit := sphere.Hit(ray, tt.tMin, tt.tMax, &rec)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, isHit)
			}
			if isHit && math.Abs(rec.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, rec.T)
			}
			if !isHit && rec.T != tt.recordT {
				t.Errorf("Expected record t to stay %f, got %f", tt.recordT, rec.T)
			}
		})
	}
}

func TestSphere_Hit_ZeroDirection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, grey)
	rec := material.NewHitRecord()
	if sphere.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.Vec3{}), 0.001, 100, &rec) {
		t.Error("Expected no hit for a zero-length direction")
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 0.5, grey)
	box := sphere.BoundingBox()

	if box.Min != core.NewVec3(0.5, 1.5, 2.5) || box.Max != core.NewVec3(1.5, 2.5, 3.5) {
		t.Errorf("Expected box [0.5 1.5 2.5]-[1.5 2.5 3.5], got %v", box)
	}
}

func TestSphere_SamplePoint(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, -2, 3), 2.0, material.NewDiffuseLight(core.NewVec3(5, 5, 5)))
	if !sphere.IsLight() {
		t.Error("Expected emissive sphere to be a light")
	}

	for i := 0; i <= 8; i++ {
		for j := 0; j <= 8; j++ {
			p := sphere.SampleSurface(core.NewVec2(float64(i)/8, float64(j)/8))
			if d := p.Subtract(sphere.Center).Length(); math.Abs(d-2.0) > 1e-9 {
				t.Fatalf("Expected sample at distance 2 from center, got %f", d)
			}
		}
	}
}
