package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestDiffuseLight_NeverScatters(t *testing.T) {
	light := NewDiffuseLight(core.NewVec3(15, 15, 15))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), FrontFace: true}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	if _, scattered := light.Scatter(ray, hit, sampler); scattered {
		t.Error("Expected diffuse light to absorb every ray")
	}
	if !light.IsLight() {
		t.Error("Expected diffuse light to report IsLight")
	}
}

func TestDiffuseLight_ConstantEmission(t *testing.T) {
	emission := core.NewVec3(4, 3, 2)
	light := NewDiffuseLight(emission)

	tests := []struct {
		name  string
		u, v  float64
		point core.Vec3
	}{
		{"origin", 0, 0, core.NewVec3(0, 0, 0)},
		{"corner", 1, 1, core.NewVec3(5, -5, 5)},
		{"interior", 0.25, 0.6, core.NewVec3(-1, 2, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := light.Emitted(tt.u, tt.v, tt.point); got != emission {
				t.Errorf("Expected emission %v, got %v", emission, got)
			}
		})
	}
}
