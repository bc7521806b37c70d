package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MockPrimitive for testing
type MockPrimitive struct {
	boundingBox core.AABB
	hitFn       func(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool
}

func (m *MockPrimitive) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	if m.hitFn == nil {
		return false
	}
	return m.hitFn(ray, tMin, tMax, rec)
}

func (m *MockPrimitive) BoundingBox() core.AABB             { return m.boundingBox }
func (m *MockPrimitive) IsLight() bool                      { return false }
func (m *MockPrimitive) SamplePoint(u, v float64) core.Vec3 { return m.boundingBox.Center() }
func (m *MockPrimitive) SampleSurface(s core.Vec2) core.Vec3 {
	return m.SamplePoint(s.X, s.Y)
}

func boxAt(x, y, z float64) core.AABB {
	return core.NewAABB(core.NewVec3(x, y, z), core.NewVec3(x+1, y+1, z+1))
}

func TestBVH_EmptyAndSingle(t *testing.T) {
	bvh, err := NewBVH(nil)
	if err != nil {
		t.Fatalf("Expected no error for empty BVH, got %v", err)
	}
	if bvh.Root != nil {
		t.Error("Expected nil root for empty BVH")
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	rec := material.NewHitRecord()
	if bvh.Hit(ray, 0.001, 1000.0, &rec) {
		t.Error("Expected no hit for empty BVH")
	}

	sphere := NewSphere(core.NewVec3(5, 0, 0), 1, grey)
	bvh, err = NewBVH([]Primitive{sphere})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if bvh.Root.Left != bvh.Root.Right {
		t.Error("Expected single-primitive node to reference the primitive twice")
	}
	if !bvh.Hit(ray, 0.001, 1000.0, &rec) || math.Abs(rec.T-4) > 1e-9 {
		t.Errorf("Expected hit at t=4, got %f", rec.T)
	}
}

func TestBVH_TwoPrimitivesOrderedByAxis(t *testing.T) {
	far := &MockPrimitive{boundingBox: boxAt(5, 0, 0)}
	near := &MockPrimitive{boundingBox: boxAt(0, 0, 0)}

	bvh, err := NewBVH([]Primitive{far, near})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if bvh.Root.Left != near || bvh.Root.Right != far {
		t.Error("Expected children ordered by box minimum on the split axis")
	}
}

func TestBVH_NodeBoxesContainChildren(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	prims := randomPrimitives(random, 200)

	bvh, err := NewBVH(prims)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var check func(node *BVHNode)
	check = func(node *BVHNode) {
		for _, child := range []Hittable{node.Left, node.Right} {
			if !node.Box.Contains(child.BoundingBox()) {
				t.Fatalf("Node box %v does not contain child box %v", node.Box, child.BoundingBox())
			}
			if inner, ok := child.(*BVHNode); ok {
				check(inner)
			}
		}
	}
	check(bvh.Root)

	stats := bvh.Stats()
	if stats.Primitives != len(prims) {
		t.Errorf("Expected %d primitive references, got %d", len(prims), stats.Primitives)
	}
	if stats.MaxDepth > 2*int(math.Ceil(math.Log2(float64(len(prims))))) {
		t.Errorf("Expected a balanced tree, got max depth %d", stats.MaxDepth)
	}
}

func TestBVH_DoesNotModifyInput(t *testing.T) {
	prims := []Primitive{
		&MockPrimitive{boundingBox: boxAt(9, 0, 0)},
		&MockPrimitive{boundingBox: boxAt(3, 0, 0)},
		&MockPrimitive{boundingBox: boxAt(6, 0, 0)},
		&MockPrimitive{boundingBox: boxAt(0, 0, 0)},
	}
	original := append([]Primitive(nil), prims...)

	if _, err := NewBVH(prims); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i := range prims {
		if prims[i] != original[i] {
			t.Fatalf("Expected input order preserved at index %d", i)
		}
	}
}

func TestBVH_InvalidBounds(t *testing.T) {
	tests := []struct {
		name     string
		box      core.AABB
		expected error
	}{
		{
			name:     "infinite box",
			box:      core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(math.Inf(1), 1, 1)),
			expected: ErrNoPrimitiveBounds,
		},
		{
			name:     "nan box",
			box:      core.NewAABB(core.NewVec3(math.NaN(), 0, 0), core.NewVec3(1, 1, 1)),
			expected: ErrNoPrimitiveBounds,
		},
		{
			name:     "inverted box",
			box:      core.NewAABB(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0)),
			expected: ErrInvalidBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prims := []Primitive{
				&MockPrimitive{boundingBox: boxAt(0, 0, 0)},
				&MockPrimitive{boundingBox: tt.box},
			}
			bvh, err := NewBVH(prims)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected error %v, got %v", tt.expected, err)
			}
			if bvh != nil {
				t.Error("Expected nil BVH on error")
			}
		})
	}
}

func TestBVH_RightChildSearchesOnlyUpToLeftHit(t *testing.T) {
	var rightTMax float64
	left := &MockPrimitive{
		boundingBox: boxAt(0, 0, 0),
		hitFn: func(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
			rec.T = 3
			return true
		},
	}
	right := &MockPrimitive{
		boundingBox: boxAt(2, 0, 0),
		hitFn: func(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
			rightTMax = tMax
			return false
		},
	}

	bvh, err := NewBVH([]Primitive{left, right})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rec := material.NewHitRecord()
	ray := core.NewRay(core.NewVec3(-5, 0.5, 0.5), core.NewVec3(1, 0, 0))
	if !bvh.Hit(ray, 0.001, 100, &rec) {
		t.Fatal("Expected hit")
	}
	if rightTMax != 3 {
		t.Errorf("Expected right child bound 3, got %f", rightTMax)
	}
}

func TestBVH_PrunesOnBoxMiss(t *testing.T) {
	called := false
	prim := &MockPrimitive{
		boundingBox: boxAt(0, 0, 0),
		hitFn: func(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
			called = true
			return false
		},
	}
	bvh, _ := NewBVH([]Primitive{prim, &MockPrimitive{boundingBox: boxAt(0, 2, 0)}})

	rec := material.NewHitRecord()
	ray := core.NewRay(core.NewVec3(-5, 10, 10), core.NewVec3(1, 0, 0))
	bvh.Hit(ray, 0.001, 100, &rec)
	if called {
		t.Error("Expected primitive test to be skipped when the node box is missed")
	}
}

func randomPrimitives(random *rand.Rand, n int) []Primitive {
	prims := make([]Primitive, 0, n)
	for i := 0; i < n; i++ {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		if i%2 == 0 {
			prims = append(prims, NewSphere(center, 0.2+random.Float64(), grey))
			continue
		}
		jitter := func() core.Vec3 {
			return core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)
		}
		prims = append(prims, NewTriangle(center.Add(jitter()), center.Add(jitter()), center.Add(jitter()), grey))
	}
	// Some axis-aligned triangles, the flat-box case
	prims = append(prims,
		NewTriangle(core.NewVec3(-10, 0, -10), core.NewVec3(10, 0, -10), core.NewVec3(10, 0, 10), grey),
		NewTriangle(core.NewVec3(-10, 0, -10), core.NewVec3(10, 0, 10), core.NewVec3(-10, 0, 10), grey),
	)
	return prims
}

func TestBVH_MatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for _, count := range []int{1, 2, 3, 7, 64, 300} {
		prims := randomPrimitives(random, count)
		bvh, err := NewBVH(prims)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		for i := 0; i < 500; i++ {
			origin := core.NewVec3(random.Float64()*30-15, random.Float64()*30-15, random.Float64()*30-15)
			direction := core.SampleOnUnitSphere(core.NewVec2(random.Float64(), random.Float64()))
			if i%10 == 0 {
				// axis-parallel rays exercise the infinite reciprocal path
				direction = core.NewVec3(0, -1, 0)
			}
			ray := core.NewRay(origin, direction)

			brute := material.NewHitRecord()
			bruteHit := false
			for _, prim := range prims {
				if prim.Hit(ray, 0.001, math.Inf(1), &brute) {
					bruteHit = true
				}
			}

			rec := material.NewHitRecord()
			bvhHit := bvh.Hit(ray, 0.001, math.Inf(1), &rec)

			if bvhHit != bruteHit {
				t.Fatalf("count=%d ray %d: expected hit=%t, got %t", count, i, bruteHit, bvhHit)
			}
			if bvhHit && math.Abs(rec.T-brute.T) > 1e-9 {
				t.Fatalf("count=%d ray %d: expected t=%f, got %f", count, i, brute.T, rec.T)
			}
		}
	}
}
