package cli

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"studiod/internal/hub"
)

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <owner/name>",
		Short: "Download a model artifact into the local cache",
		Args:  cobra.ExactArgs(1),
		RunE:  runPull,
	}
}

func runPull(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)
	out := cmd.OutOrStdout()

	ref, err := hub.ParseRef(args[0])
	if err != nil {
		return fmt.Errorf("model reference must look like owner/name: %q", args[0])
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.New(hub.Config{ModelsDir: cfg.ModelsDir, Token: cfg.HFToken})
	path, err := h.Fetch(ctx, ref, hub.FetchOptions{
		Progress: func(file string, current, total int64, mibPerSec float64, complete bool) {
			name := filepath.Base(file)
			switch {
			case complete:
				fmt.Fprintf(out, "\r%s: %s (%.1f MiB/s)          \n", name, fmtBytes(current), mibPerSec)
			case total > 0:
				fmt.Fprintf(out, "\r%s: %s / %s (%.1f MiB/s)", name, fmtBytes(current), fmtBytes(total), mibPerSec)
			default:
				fmt.Fprintf(out, "\r%s: %s (%.1f MiB/s)", name, fmtBytes(current), mibPerSec)
			}
		},
		Status: func(status string, _ float64) {
			fmt.Fprintln(out, status)
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved to %s\n", path)
	return nil
}
