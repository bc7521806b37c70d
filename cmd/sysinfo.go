package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// SystemInfo prints the host details that bound render throughput.
func SystemInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := newTable(&buf, "Component", "Property", "Value")

	if info, err := host.Info(); err == nil {
		table.Append([]string{"Host", "Name", info.Hostname})
		table.Append([]string{"", "Platform", fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)})
		table.Append([]string{"", "Kernel", fmt.Sprintf("%s (%s)", info.KernelVersion, info.KernelArch)})
	} else {
		logger.Warningf("host info unavailable: %v", err)
		table.Append([]string{"Host", "Platform", runtime.GOOS + "/" + runtime.GOARCH})
	}
	table.Append([]string{" ", " ", " "})

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		table.Append([]string{"CPU", "Model", infos[0].ModelName})
		table.Append([]string{"", "Clock", fmt.Sprintf("%.0f MHz", infos[0].Mhz)})
	} else if err != nil {
		logger.Warningf("cpu info unavailable: %v", err)
	}
	physical, _ := cpu.Counts(false)
	table.Append([]string{"", "Cores", fmt.Sprintf("%d physical, %d logical", physical, renderer.DefaultWorkers())})
	table.Append([]string{" ", " ", " "})

	if vm, err := mem.VirtualMemory(); err == nil {
		table.Append([]string{"Memory", "Total", formatBytes(vm.Total)})
		table.Append([]string{"", "Available", formatBytes(vm.Available)})
		table.Append([]string{"", "Used", fmt.Sprintf("%.1f %%", vm.UsedPercent)})
	} else {
		logger.Warningf("memory info unavailable: %v", err)
	}
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Renderer", "Default workers", fmt.Sprintf("%d", renderer.DefaultWorkers())})
	table.Append([]string{"", "Go", runtime.Version()})

	table.Render()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}
