// Package cli implements the studiod command tree: serve, chat, models,
// pull, hardware and version. Commands resolve their configuration on
// demand so help output never touches the filesystem.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is stamped by the build via -ldflags; local builds report dev.
var version = "dev"

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// NewRootCmd constructs the studiod command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "studiod",
		Short:         "Local LLM studio: pluggable engines behind an OpenAI-compatible API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Configuration file (.yaml, .json or .toml)")
	root.PersistentFlags().String("log-level", envStr("STUDIOD_LOG_LEVEL", ""),
		"Log level: off|error|info|debug (defaults STUDIOD_LOG_LEVEL or info)")

	root.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newModelsCmd(),
		newPullCmd(),
		newHardwareCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the studiod version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "studiod version %s\n", version)
		},
	}
}
