package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestLambertian_AlwaysScatters(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	normal := core.NewVec3(0, 0, 1)
	hit := HitRecord{
		Point:  core.NewVec3(1, 2, 3),
		Normal: normal,
	}
	ray := core.NewRay(core.NewVec3(1, 2, 4), core.NewVec3(0, 0, -1))

	for i := 0; i < 1000; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}
		if scatter.Attenuation != albedo {
			t.Fatalf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
		}
		if scatter.Scattered.Origin != hit.Point {
			t.Fatalf("Expected scattered ray to start at %v, got %v", hit.Point, scatter.Scattered.Origin)
		}
		// normal + point in unit sphere never points below the surface
		if scatter.Scattered.Direction.Dot(normal) < 0 {
			t.Fatalf("Scattered direction %v points below the surface", scatter.Scattered.Direction)
		}
		if scatter.Scattered.Direction.NearZero() {
			t.Fatal("Scattered direction should never be degenerate")
		}
	}
}

func TestLambertian_AlbedoClamped(t *testing.T) {
	tests := []struct {
		name     string
		albedo   core.Vec3
		expected core.Vec3
	}{
		{"in range", core.NewVec3(0.2, 0.4, 0.6), core.NewVec3(0.2, 0.4, 0.6)},
		{"above one", core.NewVec3(1.2, 5, 1), core.NewVec3(1, 1, 1)},
		{"negative", core.NewVec3(-0.1, 0.5, -3), core.NewVec3(0, 0.5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewLambertian(tt.albedo).Albedo; got != tt.expected {
				t.Errorf("Expected albedo %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestLambertian_IsMatte(t *testing.T) {
	tests := []struct {
		name     string
		material Material
		expected bool
	}{
		{"lambertian", NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), true},
		{"metal", NewMetal(core.NewVec3(0.5, 0.5, 0.5), 0.1), false},
		{"dielectric", NewDielectric(1.5), false},
		{"light", NewDiffuseLight(core.NewVec3(4, 4, 4)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMatte(tt.material); got != tt.expected {
				t.Errorf("Expected %t, got %t", tt.expected, got)
			}
		})
	}
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 1, 0)

	tests := []struct {
		name           string
		direction      core.Vec3
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{"from outside", core.NewVec3(0, -1, 0), true, outward},
		{"from inside", core.NewVec3(0, 1, 0), false, outward.Negate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewHitRecord()
			rec.SetFaceNormal(core.NewRay(core.Vec3{}, tt.direction), outward)
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal != tt.expectedNormal {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, rec.Normal)
			}
		})
	}
}
