package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"matched media", 1, 1, 0},
		{"glass head on", 1, 1 / 1.5, 0.04},
		{"glass head on from inside", 1, 1.5, 0.04},
		{"grazing", 0, 1 / 1.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reflectance(tt.cosine, tt.ratio); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestDielectric_Scatter(t *testing.T) {
	glass := NewDielectric(1.5)
	up := core.NewVec3(0, 0, 1)
	sin45 := math.Sqrt(0.5)

	tests := []struct {
		name      string
		direction core.Vec3
		frontFace bool
		sample    float64 // Compared against reflectance
		expected  core.Vec3
	}{
		{
			name:      "head on refracts straight through",
			direction: core.NewVec3(0, 0, -1),
			frontFace: true,
			sample:    0.5,
			expected:  core.NewVec3(0, 0, -1),
		},
		{
			name:      "head on reflects when the sample is below reflectance",
			direction: core.NewVec3(0, 0, -1),
			frontFace: true,
			sample:    0.01,
			expected:  core.NewVec3(0, 0, 1),
		},
		{
			name:      "entering bends toward the normal",
			direction: core.NewVec3(sin45, 0, -sin45),
			frontFace: true,
			sample:    0.99,
			expected:  core.NewVec3(sin45/1.5, 0, -math.Sqrt(1-0.5/2.25)),
		},
		{
			name:      "total internal reflection",
			direction: core.NewVec3(math.Sin(math.Pi/3), 0, -0.5),
			frontFace: false,
			sample:    0.99,
			expected:  core.NewVec3(math.Sin(math.Pi/3), 0, 0.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: up, FrontFace: tt.frontFace}
			result, ok := glass.Scatter(core.NewRay(core.NewVec3(0, 0, 1), tt.direction), hit, fixedSampler{tt.sample})
			if !ok {
				t.Fatal("Expected glass to always scatter")
			}
			if result.Attenuation != core.NewVec3(1, 1, 1) {
				t.Errorf("Expected white attenuation, got %v", result.Attenuation)
			}
			if d := result.Scattered.Direction; d.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.expected, d)
			}
		})
	}
}

func TestDielectric_NotEmissive(t *testing.T) {
	glass := NewDielectric(1.5)
	if glass.IsLight() || IsMatte(glass) {
		t.Error("Expected glass to be neither a light nor matte")
	}
	if e := glass.Emitted(0, 0, core.Vec3{}); e != (core.Vec3{}) {
		t.Errorf("Expected black emission, got %v", e)
	}
}

func TestDielectric_MatchedIndexPassesStraightThrough(t *testing.T) {
	air := NewDielectric(1.0)
	normal := core.NewVec3(0, 0, 1)

	tests := []struct {
		name      string
		direction core.Vec3
		frontFace bool
	}{
		{"normal incidence front face", core.NewVec3(0, 0, -2), true},
		{"normal incidence back face", core.NewVec3(0, 0, -2), false},
		{"oblique front face", core.NewVec3(1, 0, -1), true},
		{"oblique back face", core.NewVec3(1, 0, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := HitRecord{Point: core.Vec3{}, Normal: normal, FrontFace: tt.frontFace}
			expected := tt.direction.Normalize()
			sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

			// Oblique rays keep a small Schlick term, so only normal incidence is sampled freely
			var s core.Sampler = sampler
			if tt.direction.X != 0 {
				s = fixedSampler{0.5}
			}

			for i := 0; i < 200; i++ {
				result, ok := air.Scatter(core.NewRay(core.NewVec3(0, 0, 1), tt.direction), hit, s)
				if !ok {
					t.Fatal("Expected dielectric to scatter")
				}
				got := result.Scattered.Direction
				if got.Subtract(expected).Length() > 1e-12 {
					t.Fatalf("Expected direction %v, got %v", expected, got)
				}
			}
		})
	}
}
