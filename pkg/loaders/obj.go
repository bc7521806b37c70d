package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
)

var logger = log.New("loaders")

// ErrMalformedOBJ is returned for OBJ or MTL input that cannot be parsed
var ErrMalformedOBJ = errors.New("loaders: malformed OBJ")

// OBJOptions controls how faces become primitives
type OBJOptions struct {
	// Default is used for faces without a resolvable usemtl; nil selects
	// a 0.5 grey Lambertian
	Default material.Material

	// Materials maps usemtl names to materials. Entries from a loaded
	// mtllib are added only for names not already present.
	Materials map[string]material.Material

	// Offset and Scale are applied to every vertex position (Scale 0 means 1).
	// Rotation, in radians around X then Y then Z, pivots on the model origin.
	Offset   core.Vec3
	Scale    float64
	Rotation core.Vec3

	// Dir resolves mtllib paths; empty disables mtllib loading
	Dir string

	Logger log.Logger
}

// OBJData is the result of reading an OBJ stream
type OBJData struct {
	Triangles  []geometry.Primitive
	Vertices   int
	TexCoords  int
	Normals    int
	Faces      int // Polygons read, before triangulation
	Degenerate int // Zero-area triangles dropped
	Materials  []string
}

// LoadOBJFile opens filename and reads it with LoadOBJ. mtllib statements
// are resolved next to the file unless opts.Dir is set.
func LoadOBJFile(filename string, opts OBJOptions) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	if opts.Dir == "" {
		opts.Dir = filepath.Dir(filename)
	}
	data, err := LoadOBJ(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// faceVertex is one parsed corner of an f statement
type faceVertex struct {
	position, texCoord, normal int // Resolved zero-based indices, -1 if absent
}

// LoadOBJ reads v, vt, vn, f, usemtl and mtllib statements and fan
// triangulates every polygon. Indices may be 1-based or negative.
func LoadOBJ(r io.Reader, opts OBJOptions) (*OBJData, error) {
	startTime := time.Now()
	l := opts.Logger
	if l == nil {
		l = logger
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	defaultMaterial := opts.Default
	if defaultMaterial == nil {
		defaultMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	}
	materials := make(map[string]material.Material, len(opts.Materials))
	for name, mat := range opts.Materials {
		materials[name] = mat
	}

	data := &OBJData{}
	var positions []core.Vec3
	var faces []int
	var faceMaterials []material.Material
	current := defaultMaterial
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		malformed := func(format string, args ...interface{}) error {
			return fmt.Errorf("%w: line %d: %s", ErrMalformedOBJ, lineNumber, fmt.Sprintf(format, args...))
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, malformed("vertex: %v", err)
			}
			positions = append(positions, core.NewVec3(p[0], p[1], p[2]).Multiply(scale).Add(opts.Offset))

		case "vt":
			if _, err := parseFloats(fields[1:], 2); err != nil {
				return nil, malformed("texture coordinate: %v", err)
			}
			data.TexCoords++

		case "vn":
			if _, err := parseFloats(fields[1:], 3); err != nil {
				return nil, malformed("normal: %v", err)
			}
			data.Normals++

		case "f":
			if len(fields) < 4 {
				return nil, malformed("face needs at least 3 vertices, got %d", len(fields)-1)
			}
			corners := make([]faceVertex, 0, len(fields)-1)
			for _, field := range fields[1:] {
				fv, err := parseFaceVertex(field, len(positions), data.TexCoords, data.Normals)
				if err != nil {
					return nil, malformed("face vertex %q: %v", field, err)
				}
				corners = append(corners, fv)
			}
			data.Faces++

			// Fan around the first corner
			for i := 1; i+1 < len(corners); i++ {
				faces = append(faces, corners[0].position, corners[i].position, corners[i+1].position)
				faceMaterials = append(faceMaterials, current)
			}

		case "usemtl":
			if len(fields) < 2 {
				return nil, malformed("usemtl without a name")
			}
			name := strings.Join(fields[1:], " ")
			if !seen[name] {
				seen[name] = true
				data.Materials = append(data.Materials, name)
			}
			if mat, ok := materials[name]; ok {
				current = mat
			} else {
				l.Warningf("material %q not found, using default", name)
				current = defaultMaterial
			}

		case "mtllib":
			if opts.Dir == "" || len(fields) < 2 {
				continue
			}
			for _, lib := range fields[1:] {
				loaded, err := LoadMTLFile(filepath.Join(opts.Dir, lib))
				if err != nil {
					return nil, err
				}
				for name, mat := range loaded {
					if _, exists := materials[name]; !exists {
						materials[name] = mat
					}
				}
			}

		default:
			// o, g, s and other grouping statements carry no geometry
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ: %w", err)
	}

	mesh, err := geometry.NewTriangleMesh(positions, faces, defaultMaterial, &geometry.TriangleMeshOptions{
		Materials: faceMaterials,
		Rotation:  opts.Rotation,
		Center:    opts.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOBJ, err)
	}
	data.Triangles = mesh.Triangles
	data.Degenerate = mesh.Degenerate
	data.Vertices = len(positions)
	l.Infof("loaded OBJ: %d vertices, %d faces, %d triangles in %v",
		data.Vertices, data.Faces, len(data.Triangles), time.Since(startTime))

	return data, nil
}

// parseFaceVertex parses a, a/b, a//c or a/b/c
func parseFaceVertex(field string, positions, texCoords, normals int) (faceVertex, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return faceVertex{}, fmt.Errorf("too many components")
	}

	fv := faceVertex{position: -1, texCoord: -1, normal: -1}
	targets := []*int{&fv.position, &fv.texCoord, &fv.normal}
	counts := []int{positions, texCoords, normals}

	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return faceVertex{}, fmt.Errorf("missing position index")
			}
			continue
		}
		index, err := resolveIndex(part, counts[i])
		if err != nil {
			return faceVertex{}, err
		}
		*targets[i] = index
	}
	return fv, nil
}

// resolveIndex converts a 1-based or negative relative index to zero-based
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}

	var index int
	switch {
	case n > 0:
		index = n - 1
	case n < 0:
		index = count + n
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}

	if index < 0 || index >= count {
		return 0, fmt.Errorf("index %d out of range (%d defined)", n, count)
	}
	return index, nil
}

// parseFloats parses at least n leading floats
func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", fields[i])
		}
		values[i] = v
	}
	return values, nil
}
