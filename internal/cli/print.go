package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"studiod/internal/catalog"
	"studiod/internal/hardware"
)

// printHardware writes the detection report the way the interactive modes
// show it at startup.
func printHardware(w io.Writer, info hardware.Info) {
	bar := strings.Repeat("=", 60)
	sep := strings.Repeat("-", 60)
	fmt.Fprintln(w, bar)
	fmt.Fprintln(w, "HARDWARE DETECTION")
	fmt.Fprintln(w, bar)
	fmt.Fprintf(w, "  Platform:     %s %s\n", info.Platform, info.PlatformVersion)
	fmt.Fprintf(w, "  CPU:          %s\n", info.CPUBrand)
	fmt.Fprintf(w, "  CPU Cores:    %d\n", info.CPUCores)
	fmt.Fprintf(w, "  Total RAM:    %.1f GB\n", info.RAMGB)
	fmt.Fprintf(w, "  Available:    %.1f GB\n", info.AvailableRAMGB)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  GPU Vendor:   %s\n", info.GPU.Vendor)
	fmt.Fprintf(w, "  GPU Name:     %s\n", info.GPU.Name)
	if info.GPU.VRAMGB > 0 {
		fmt.Fprintf(w, "  GPU VRAM:     %.1f GB\n", info.GPU.VRAMGB)
	}
	if info.GPU.CUDAAvailable {
		fmt.Fprintf(w, "  CUDA:         available (v%s)\n", info.GPU.CUDAVersion)
	}
	if info.GPU.MetalAvailable {
		fmt.Fprintln(w, "  Metal:        available")
	}
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Recommended Backend: %s\n", info.RecommendedBackend)
	fmt.Fprintf(w, "  Max Model Size:      %.1f GB\n", info.RecommendedModelSizeGB)
	fmt.Fprintf(w, "  Compatibility:       %s\n", hardware.Compatibility(info))
	fmt.Fprintln(w, bar)
}

// printModels writes the catalogue as an aligned table, recommended entries
// starred.
func printModels(w io.Writer, entries []catalog.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tPARAMS\tCONTEXT\tTYPE\tREPO")
	for _, e := range entries {
		name := e.Name
		if e.Recommended {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%.1f GB\t%s\t%d\t%s\t%s\n",
			name, e.SizeGB, e.Parameters, e.ContextLength, e.Type, e.Repo)
	}
	tw.Flush()
	fmt.Fprintln(w, "* recommended")
}

func fmtBytes(n int64) string {
	const mib = 1024 * 1024
	if n >= 1024*mib {
		return fmt.Sprintf("%.2f GiB", float64(n)/(1024*mib))
	}
	return fmt.Sprintf("%.1f MiB", float64(n)/mib)
}
