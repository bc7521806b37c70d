package main

import (
	"os"

	"github.com/df07/go-pathtracer/cmd"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render scenes using Monte Carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to an image file",
			Description: `
Render a builtin scene, or a Wavefront OBJ file, with the CPU path tracer.
Scanlines are traced in parallel and the finished image is written as PNG,
BMP or PPM. Interrupting the render writes the scanlines completed so far.`,
			ArgsUsage: "[scene]",
			Flags:     cmd.RenderFlags,
			Action:    cmd.RenderScene,
		},
		{
			Name:  "scenes",
			Usage: "list builtin scenes and OBJ scenes in a directory",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir, d",
					Value: "scenes",
					Usage: "directory scanned for .obj scenes",
				},
			},
			Action: cmd.ListScenes,
		},
		{
			Name:      "inspect",
			Usage:     "show scene contents and BVH statistics",
			ArgsUsage: "scene",
			Flags: []cli.Flag{
				cli.Int64Flag{
					Name:   "seed",
					Value:  42,
					Usage:  "layout seed for randomized scenes",
					EnvVar: "PATHTRACER_SEED",
				},
				cli.IntFlag{
					Name:  "grid-size",
					Usage: "sphere count per side for the spheregrid scene",
				},
				cli.BoolFlag{
					Name:  "lights-in-bvh",
					Usage: "place emissive primitives inside the BVH",
				},
			},
			Action: cmd.InspectScene,
		},
		{
			Name:   "sysinfo",
			Usage:  "show host details and the default worker count",
			Action: cmd.SystemInfo,
		},
	}

	return app
}

// run executes the CLI and returns the process exit code. urfave/cli only
// prints errors implementing cli.ExitCoder, so everything else is logged here.
func run(args []string) int {
	if err := newApp().Run(args); err != nil {
		log.New("pathtracer").Error(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args))
}
