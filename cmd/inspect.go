package cmd

import (
	"bytes"
	"fmt"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectScene loads a scene and prints its contents and BVH statistics.
func InspectScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return fmt.Errorf("expected one scene argument (available: %v)", scene.Names())
	}

	sc, err := scene.Load(ctx.Args().First(), scene.LoadOptions{
		Seed:        ctx.Int64("seed"),
		GridSize:    ctx.Int("grid-size"),
		LightsInBVH: ctx.Bool("lights-in-bvh"),
	})
	if err != nil {
		return err
	}

	fmt.Fprint(ctx.App.Writer, sceneStatsTable(sc))
	return nil
}

// ListScenes prints the builtin scenes and any OBJ scenes found in the
// scenes directory.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	groups, err := scene.ListAllScenes(ctx.String("dir"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := newTable(&buf, "Group", "ID", "Name", "Description")
	for _, group := range groups {
		for i, info := range group.Scenes {
			name := ""
			if i == 0 {
				name = group.Name
			}
			table.Append([]string{name, info.ID, info.Name, info.Description})
		}
	}
	table.Render()

	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}
