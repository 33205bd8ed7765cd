package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studiod/internal/catalog"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models [search terms]",
		Short: "List the curated model catalogue",
		RunE:  runModels,
	}
	cmd.Flags().Bool("fit", false, "Only models that fit this machine's memory")
	return cmd
}

func runModels(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	entries := catalog.All()
	if len(args) > 0 {
		entries = catalog.Search(strings.Join(args, " "))
	}
	if fit, _ := cmd.Flags().GetBool("fit"); fit {
		info := detectHardware()
		avail := info.AvailableRAMGB
		if info.GPU.VRAMGB > avail {
			avail = info.GPU.VRAMGB
		}
		entries = fitting(entries, avail)
		fmt.Fprintf(out, "Models fitting %.1f GB:\n", avail)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No models match.")
		return nil
	}
	printModels(out, entries)
	return nil
}

func fitting(entries []catalog.Entry, availableGB float64) []catalog.Entry {
	var out []catalog.Entry
	for _, e := range entries {
		if e.FitsMemory(availableGB) {
			out = append(out, e)
		}
	}
	return out
}
