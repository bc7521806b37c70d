package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// mtlEntry accumulates the statements of one newmtl block
type mtlEntry struct {
	diffuse  core.Vec3
	specular core.Vec3
	emission core.Vec3
	shine    float64
	ior      float64
	dissolve float64
	illum    int
}

// LoadMTLFile opens and reads a material library
func LoadMTLFile(filename string) (map[string]material.Material, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open MTL file: %w", err)
	}
	defer file.Close()

	materials, err := LoadMTL(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return materials, nil
}

// LoadMTL reads a material library and maps each entry onto the closest
// supported material:
//   - Ke non-zero: DiffuseLight
//   - d < 1 or illum 4, 6, 7: Dielectric with index Ni
//   - Ks non-zero with illum 3 or 5: Metal tinted by Ks, fuzz from Ns
//   - otherwise Lambertian with Kd
func LoadMTL(r io.Reader) (map[string]material.Material, error) {
	materials := make(map[string]material.Material)
	entries := make(map[string]*mtlEntry)
	var order []string
	var current *mtlEntry

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
			return fmt.Errorf("%w: mtl line %d: %s", ErrMalformedOBJ, lineNumber, fmt.Sprintf(format, args...))
		}

		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				return nil, malformed("newmtl without a name")
			}
			name := strings.Join(fields[1:], " ")
			current = &mtlEntry{diffuse: core.NewVec3(0.5, 0.5, 0.5), ior: 1.5, dissolve: 1}
			entries[name] = current
			order = append(order, name)
			continue
		}
		if current == nil {
			continue
		}

		switch fields[0] {
		case "Kd", "Ks", "Ke":
			c, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, malformed("%s: %v", fields[0], err)
			}
			color := core.NewVec3(c[0], c[1], c[2])
			switch fields[0] {
			case "Kd":
				current.diffuse = color
			case "Ks":
				current.specular = color
			default:
				current.emission = color
			}
		case "Ns", "Ni", "d":
			v, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, malformed("%s: %v", fields[0], err)
			}
			switch fields[0] {
			case "Ns":
				current.shine = v[0]
			case "Ni":
				current.ior = v[0]
			default:
				current.dissolve = v[0]
			}
		case "Tr":
			v, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, malformed("Tr: %v", err)
			}
			current.dissolve = 1 - v[0]
		case "illum":
			n, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil {
				return nil, malformed("illum: invalid value %q", fields[len(fields)-1])
			}
			current.illum = n
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read MTL: %w", err)
	}

	for _, name := range order {
		materials[name] = entries[name].material()
	}
	return materials, nil
}

// material picks the material type for an entry
func (e *mtlEntry) material() material.Material {
	switch {
	case !e.emission.NearZero():
		return material.NewDiffuseLight(e.emission)
	case e.dissolve < 1 || e.illum == 4 || e.illum == 6 || e.illum == 7:
		return material.NewDielectric(e.ior)
	case (e.illum == 3 || e.illum == 5) && !e.specular.NearZero():
		// Ns runs 0..1000; sharper highlights mean less fuzz
		fuzz := 1 - e.shine/1000
		return material.NewMetal(e.specular, fuzz)
	default:
		return material.NewLambertian(e.diffuse)
	}
}
