package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrMeshIndex is returned for face lists that do not index the vertex list
var ErrMeshIndex = errors.New("geometry: invalid mesh face index")

// TriangleMesh is a set of triangles built from an indexed vertex list. The
// triangles are ordinary primitives; the scene BVH indexes them directly.
type TriangleMesh struct {
	Triangles  []Primitive
	Degenerate int // Zero-area faces skipped
	bbox       core.AABB
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Materials []material.Material // Optional per-face materials
	Rotation  core.Vec3           // Radians around X, then Y, then Z
	Center    core.Vec3           // Pivot for Rotation
}

// NewTriangleMesh creates triangles from vertices and face indices. Each
// group of three indices forms one triangle using mat unless a per-face
// material is supplied.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a multiple of 3", ErrMeshIndex, len(faces))
	}
	numTriangles := len(faces) / 3
	if options == nil {
		options = &TriangleMeshOptions{}
	}
	if options.Materials != nil && len(options.Materials) != numTriangles {
		return nil, fmt.Errorf("%w: %d materials for %d faces", ErrMeshIndex, len(options.Materials), numTriangles)
	}

	workingVertices := vertices
	if options.Rotation != (core.Vec3{}) {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			vertex = rotateVertex(vertex.Subtract(options.Center), options.Rotation)
			workingVertices[i] = vertex.Add(options.Center)
		}
	}

	mesh := &TriangleMesh{Triangles: make([]Primitive, 0, numTriangles)}
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range []int{i0, i1, i2} {
			if idx < 0 || idx >= len(workingVertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrMeshIndex, i, idx, len(workingVertices))
			}
		}

		a, b, c := workingVertices[i0], workingVertices[i1], workingVertices[i2]
		if b.Subtract(a).Cross(c.Subtract(a)).NearZero() {
			mesh.Degenerate++
			continue
		}

		triangleMaterial := mat
		if options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}
		triangle := NewTriangle(a, b, c, triangleMaterial)
		if len(mesh.Triangles) == 0 {
			mesh.bbox = triangle.BoundingBox()
		} else {
			mesh.bbox = mesh.bbox.Union(triangle.BoundingBox())
		}
		mesh.Triangles = append(mesh.Triangles, triangle)
	}

	return mesh, nil
}

// BoundingBox returns the union of the triangle boxes
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos, sin := math.Cos(rotation.X), math.Sin(rotation.X)
		vertex = core.NewVec3(vertex.X, vertex.Y*cos-vertex.Z*sin, vertex.Y*sin+vertex.Z*cos)
	}

	if rotation.Y != 0 {
		cos, sin := math.Cos(rotation.Y), math.Sin(rotation.Y)
		vertex = core.NewVec3(vertex.X*cos+vertex.Z*sin, vertex.Y, -vertex.X*sin+vertex.Z*cos)
	}

	if rotation.Z != 0 {
		cos, sin := math.Cos(rotation.Z), math.Sin(rotation.Z)
		vertex = core.NewVec3(vertex.X*cos-vertex.Y*sin, vertex.X*sin+vertex.Y*cos, vertex.Z)
	}

	return vertex
}
