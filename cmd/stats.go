package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var printer = message.NewPrinter(language.English)

// formatCount renders n with thousands separators
func formatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// formatBytes renders a byte count with a binary unit
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func newTable(buf *bytes.Buffer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

// renderStatsTable builds a tabular summary of a finished render.
func renderStatsTable(stats renderer.RenderStats) string {
	var buf bytes.Buffer
	table := newTable(&buf, "Statistic", "Value")
	table.Append([]string{"Image", fmt.Sprintf("%dx%d", stats.Width, stats.Height)})
	table.Append([]string{"Samples per pixel", fmt.Sprintf("%d", stats.SamplesPerPixel)})
	table.Append([]string{"Workers", fmt.Sprintf("%d", stats.Workers)})
	table.Append([]string{"Scanlines", fmt.Sprintf("%d / %d", stats.Rows, stats.Height)})
	table.Append([]string{"Samples", formatCount(stats.TotalSamples)})
	table.Append([]string{"Rays", formatCount(stats.Rays)})
	table.Append([]string{"Rays/s", formatCount(int64(stats.RaysPerSecond()))})
	table.Append([]string{"Samples/s", formatCount(int64(stats.SamplesPerSecond()))})
	table.Append([]string{"Avg noise", fmt.Sprintf("%.4f", stats.AverageNoise)})
	table.Append([]string{"Avg luminance", fmt.Sprintf("%.4f", stats.AverageLuminance)})
	if stats.InvalidSamples > 0 {
		table.Append([]string{"Invalid samples", formatCount(stats.InvalidSamples)})
	}
	status := "complete"
	if stats.Interrupted {
		status = "interrupted"
	}
	table.SetFooter([]string{status, stats.Duration.String()})

	table.Render()
	return buf.String()
}

// sceneStatsTable lists scene contents and BVH structure.
func sceneStatsTable(s *scene.Scene) string {
	stats := s.Stats()
	box := s.BoundingBox()

	var buf bytes.Buffer
	table := newTable(&buf, "Section", "Property", "Value")
	table.Append([]string{"Scene", "Name", s.Name})
	table.Append([]string{"", "Primitives", formatCount(int64(stats.Primitives))})
	table.Append([]string{"", "Spheres", formatCount(int64(stats.Spheres))})
	table.Append([]string{"", "Triangles", formatCount(int64(stats.Triangles))})
	table.Append([]string{"", "Lights", fmt.Sprintf("%d (%d outside BVH)", stats.Lights, stats.Outside)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"BVH", "Nodes", formatCount(int64(stats.BVH.TotalNodes))})
	table.Append([]string{"", "Primitive refs", formatCount(int64(stats.BVH.Primitives))})
	table.Append([]string{"", "Max depth", fmt.Sprintf("%d", stats.BVH.MaxDepth)})
	table.Append([]string{"", "Avg depth", fmt.Sprintf("%.2f", stats.BVH.AvgDepth)})
	table.Append([]string{"", "Largest extent", fmt.Sprintf("%.3f", stats.BVH.LargestExtent)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Bounds", "Min", fmt.Sprintf("%.3f %.3f %.3f", box.Min.X, box.Min.Y, box.Min.Z)})
	table.Append([]string{"", "Max", fmt.Sprintf("%.3f %.3f %.3f", box.Max.X, box.Max.Y, box.Max.Z)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Render", "Width", fmt.Sprintf("%d", s.SamplingConfig.Width)})
	table.Append([]string{"", "Samples per pixel", fmt.Sprintf("%d", s.SamplingConfig.SamplesPerPixel)})
	table.Append([]string{"", "Max depth", fmt.Sprintf("%d", s.SamplingConfig.MaxDepth)})

	table.Render()
	return buf.String()
}
