package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/imageio"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderFlags are the flags accepted by the render command.
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "default",
		Usage: "builtin scene name, obj:<path> or a path to an .obj file",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "image width (0 uses the scene default)",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "image height (0 derives it from the camera aspect ratio)",
	},
	cli.IntFlag{
		Name:  "spp",
		Usage: "samples per pixel (0 uses the scene default)",
	},
	cli.IntFlag{
		Name:  "depth",
		Usage: "maximum bounce depth (0 uses the scene default)",
	},
	cli.IntFlag{
		Name:   "workers",
		Usage:  "render goroutines (0 uses one per logical CPU)",
		EnvVar: "PATHTRACER_WORKERS",
	},
	cli.Int64Flag{
		Name:   "seed",
		Value:  42,
		Usage:  "random seed for sampling and randomized scene layouts",
		EnvVar: "PATHTRACER_SEED",
	},
	cli.StringFlag{
		Name:  "out, o",
		Usage: "output file (default output/<scene>/render_<timestamp>.<format>)",
	},
	cli.StringFlag{
		Name:  "format, f",
		Usage: "output format: png, bmp or ppm (default from the output extension)",
	},
	cli.StringFlag{
		Name:  "sequence",
		Value: "random",
		Usage: "matte bounce sequence: random or fibonacci",
	},
	cli.StringFlag{
		Name:  "mode",
		Value: "combined",
		Usage: "estimator: combined, indirect or direct",
	},
	cli.IntFlag{
		Name:  "rr-bounces",
		Usage: "bounces before russian roulette starts (0 disables it)",
	},
	cli.BoolFlag{
		Name:  "lights-in-bvh",
		Usage: "place emissive primitives inside the BVH",
	},
	cli.IntFlag{
		Name:  "grid-size",
		Usage: "sphere count per side for the spheregrid scene",
	},
	cli.StringFlag{
		Name:  "lookfrom",
		Usage: "camera position as x,y,z",
	},
	cli.StringFlag{
		Name:  "lookat",
		Usage: "camera target as x,y,z",
	},
	cli.Float64Flag{
		Name:  "vfov",
		Usage: "vertical field of view in degrees",
	},
	cli.Float64Flag{
		Name:  "aperture",
		Usage: "lens diameter",
	},
	cli.Float64Flag{
		Name:  "focus-dist",
		Usage: "focus distance",
	},
}

// RenderScene renders a scene to an image file.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneID := ctx.String("scene")
	if ctx.NArg() > 0 {
		sceneID = ctx.Args().First()
	}

	cameraOverride, err := cameraFlags(ctx)
	if err != nil {
		return err
	}

	sc, err := scene.Load(sceneID, scene.LoadOptions{
		Seed:        ctx.Int64("seed"),
		GridSize:    ctx.Int("grid-size"),
		Camera:      cameraOverride,
		LightsInBVH: ctx.Bool("lights-in-bvh"),
	})
	if err != nil {
		return err
	}

	opts, err := renderOptions(ctx, sc)
	if err != nil {
		return err
	}

	camCfg := sc.CameraConfig
	camCfg.AspectRatio = float64(opts.Width) / float64(opts.Height)
	cam := camera.New(camCfg)

	outPath, format, err := outputTarget(ctx.String("out"), ctx.String("format"), sc.Name, time.Now())
	if err != nil {
		return err
	}

	// Cancelling the context stops the render between scanlines
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Noticef("rendering scene %q (%dx%d, %d spp, depth %d, mode %s, sequence %s)",
		sc.Name, opts.Width, opts.Height, opts.SamplesPerPixel, opts.MaxDepth, opts.Mode, opts.Sequence)

	fb, stats, err := renderer.Render(renderCtx, sc, cam, opts)
	if err != nil && !errors.Is(err, renderer.ErrInterrupted) {
		return err
	}
	if err != nil {
		logger.Warningf("render interrupted, writing %d completed scanlines", fb.CompletedRows())
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imageio.Write(outPath, fb.Finalize(), format); err != nil {
		return err
	}

	logger.Noticef("render statistics\n%s", renderStatsTable(stats))
	logger.Noticef("wrote %s", outPath)
	return nil
}

// renderOptions fills renderer options from flags, falling back to the
// scene's own sampling settings.
func renderOptions(ctx *cli.Context, sc *scene.Scene) (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	if sc.SamplingConfig.Width > 0 {
		opts.Width = sc.SamplingConfig.Width
	}
	if sc.SamplingConfig.SamplesPerPixel > 0 {
		opts.SamplesPerPixel = sc.SamplingConfig.SamplesPerPixel
	}
	if sc.SamplingConfig.MaxDepth > 0 {
		opts.MaxDepth = sc.SamplingConfig.MaxDepth
	}

	if w := ctx.Int("width"); w != 0 {
		opts.Width = w
	}
	if spp := ctx.Int("spp"); spp != 0 {
		opts.SamplesPerPixel = spp
	}
	if depth := ctx.Int("depth"); depth != 0 {
		opts.MaxDepth = depth
	}
	opts.Height = ctx.Int("height")
	if opts.Height == 0 {
		opts.Height = heightFor(opts.Width, sc.CameraConfig.AspectRatio)
	}

	opts.Workers = ctx.Int("workers")
	opts.Seed = ctx.Int64("seed")
	opts.RussianRouletteMinBounces = ctx.Int("rr-bounces")

	var err error
	if opts.Sequence, err = integrator.ParseSequence(ctx.String("sequence")); err != nil {
		return opts, err
	}
	if opts.Mode, err = integrator.ParseMode(ctx.String("mode")); err != nil {
		return opts, err
	}

	return opts, opts.Validate()
}

// heightFor derives the image height from width and a camera aspect ratio
func heightFor(width int, aspect float64) int {
	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}
	h := int(float64(width)/aspect + 0.5)
	if h < 1 {
		h = 1
	}
	return h
}

// cameraFlags collects the camera override flags. Unset flags stay zero so
// the scene camera keeps them.
func cameraFlags(ctx *cli.Context) (camera.Config, error) {
	cfg := camera.Config{
		VFov:          ctx.Float64("vfov"),
		Aperture:      ctx.Float64("aperture"),
		FocusDistance: ctx.Float64("focus-dist"),
	}

	var err error
	if s := ctx.String("lookfrom"); s != "" {
		if cfg.LookFrom, err = parseVec3(s); err != nil {
			return cfg, fmt.Errorf("invalid --lookfrom: %w", err)
		}
	}
	if s := ctx.String("lookat"); s != "" {
		if cfg.LookAt, err = parseVec3(s); err != nil {
			return cfg, fmt.Errorf("invalid --lookat: %w", err)
		}
	}
	return cfg, nil
}

// parseVec3 parses "x,y,z"
func parseVec3(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}

	var v [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// outputTarget resolves the output path and format. An empty path becomes a
// timestamped file under output/<scene>/.
func outputTarget(path, formatName, sceneName string, now time.Time) (string, imageio.Format, error) {
	var format imageio.Format
	if formatName != "" {
		f, err := imageio.ParseFormat(formatName)
		if err != nil {
			return "", "", err
		}
		format = f
	}

	if path == "" {
		if format == "" {
			format = imageio.PNG
		}
		dir := filepath.Join("output", filepath.Base(sceneName))
		name := fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), format)
		return filepath.Join(dir, name), format, nil
	}

	if format == "" {
		f, err := imageio.FormatFromPath(path)
		if err != nil {
			return "", "", err
		}
		format = f
	}
	return path, format, nil
}
