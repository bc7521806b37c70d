package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
)

// SceneInfo describes a scene that can be loaded by ID
type SceneInfo struct {
	ID          string // "cornell" for builtins, "obj:<name>" for files
	Name        string
	Description string
	Group       string
	Type        string // "builtin" or "obj"
	FilePath    string // OBJ file path (obj type only)
}

// LoadOptions are passed to every scene constructor
type LoadOptions struct {
	Seed     int64         // Layout seed for randomized scenes
	GridSize int           // Sphere grid size, 0 for 10
	Camera   camera.Config // Non-zero fields override the scene camera

	LightsInBVH bool // See Options.LightsInBVH
}

type builtinScene struct {
	info SceneInfo
	load func(opts LoadOptions) (*Scene, error)
}

var builtins = []builtinScene{
	{
		info: SceneInfo{ID: "default", Name: "Random Spheres", Description: "Random sphere field with a spherical light"},
		load: func(opts LoadOptions) (*Scene, error) { return NewDefaultScene(opts.Seed, opts.Camera) },
	},
	{
		info: SceneInfo{ID: "cornell", Name: "Cornell Box", Description: "Triangle Cornell box with two spheres and an area light"},
		load: func(opts LoadOptions) (*Scene, error) { return NewCornellScene(opts.Camera) },
	},
	{
		info: SceneInfo{ID: "spheregrid", Name: "Sphere Grid", Description: "Grid of metal, glass and diffuse spheres"},
		load: func(opts LoadOptions) (*Scene, error) {
			size := opts.GridSize
			if size == 0 {
				size = 10
			}
			return NewSphereGridScene(size, opts.Camera)
		},
	},
}

const builtinGroup = "Built-in Scenes"

// Builtins lists the compiled-in scenes in registration order
func Builtins() []SceneInfo {
	infos := make([]SceneInfo, len(builtins))
	for i, b := range builtins {
		infos[i] = b.info
		infos[i].Group = builtinGroup
		infos[i].Type = "builtin"
	}
	return infos
}

// Names returns the builtin scene IDs
func Names() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.info.ID
	}
	return names
}

// Load builds a scene by ID. IDs with an "obj:" prefix, or paths ending in
// .obj, are read from disk; anything else must name a builtin.
func Load(id string, opts LoadOptions) (*Scene, error) {
	s, err := load(id, opts)
	if err != nil || !opts.LightsInBVH {
		return s, err
	}
	return s.rebuild(true)
}

func load(id string, opts LoadOptions) (*Scene, error) {
	if path, ok := strings.CutPrefix(id, "obj:"); ok {
		return LoadOBJScene(path, opts)
	}
	if strings.HasSuffix(strings.ToLower(id), ".obj") {
		return LoadOBJScene(id, opts)
	}
	for _, b := range builtins {
		if b.info.ID == id {
			return b.load(opts)
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, id, strings.Join(Names(), ", "))
}

// LoadOBJScene reads an OBJ file into a scene under the sky gradient. The
// camera frames the mesh bounds from the front unless overridden.
func LoadOBJScene(path string, opts LoadOptions) (*Scene, error) {
	data, err := loaders.LoadOBJFile(path, loaders.OBJOptions{})
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := New(data.Triangles, Options{
		Name:       name,
		Background: SkyGradient,
		SamplingConfig: SamplingConfig{
			Width:           400,
			SamplesPerPixel: 10,
			MaxDepth:        50,
		},
	})
	if err != nil {
		return nil, err
	}

	s.CameraConfig = camera.Merge(frameBounds(s.BoundingBox()), opts.Camera)
	return s, nil
}

// frameBounds places a camera in front of the box (toward +Z) so the whole
// box fits a 40 degree vertical field of view
func frameBounds(box core.AABB) camera.Config {
	center := box.Center()
	radius := box.Size().Length() / 2
	if radius == 0 {
		radius = 1
	}
	distance := radius / 0.34 // ~tan(20°)
	return camera.Config{
		LookFrom:    center.Add(core.NewVec3(0, radius*0.3, distance)),
		LookAt:      center,
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}
}

// ListOBJScenes scans dir for .obj files and reads their header metadata.
// A missing directory yields an empty list.
func ListOBJScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.obj"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParseOBJMetadata(filePath)
		if err != nil {
			logger.Warningf("failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseOBJMetadata reads "# Scene:", "# Description:" and "# Group:" from
// the leading comment block of an OBJ file. Missing fields fall back to
// values derived from the file name.
func ParseOBJMetadata(filePath string) (SceneInfo, error) {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:       "obj:" + filePath,
		Name:     titleCase(base),
		Group:    "OBJ Scenes",
		Type:     "obj",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		key, value, found := strings.Cut(content, ":")
		value = strings.TrimSpace(value)
		if !found || value == "" {
			continue
		}
		switch key {
		case "Scene":
			info.Name = value
		case "Description":
			info.Description = value
		case "Group":
			info.Group = value
		}
	}

	return info, scanner.Err()
}

// SceneGroup is a named set of scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

// ListAllScenes returns the builtin group first, then OBJ groups from dir
// in alphabetical order
func ListAllScenes(dir string) ([]SceneGroup, error) {
	groups := []SceneGroup{{Name: builtinGroup, Scenes: Builtins()}}

	objScenes, err := ListOBJScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list OBJ scenes: %w", err)
	}

	byGroup := make(map[string][]SceneInfo)
	var names []string
	for _, info := range objScenes {
		if _, ok := byGroup[info.Group]; !ok {
			names = append(names, info.Group)
		}
		byGroup[info.Group] = append(byGroup[info.Group], info)
	}
	sort.Strings(names)

	for _, name := range names {
		groups = append(groups, SceneGroup{Name: name, Scenes: byGroup[name]})
	}
	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
