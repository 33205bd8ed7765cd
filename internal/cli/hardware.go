package cli

import (
	"github.com/spf13/cobra"
)

func newHardwareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hardware",
		Short: "Show detected hardware and the backend recommendation",
		Run: func(cmd *cobra.Command, args []string) {
			printHardware(cmd.OutOrStdout(), detectHardware())
		},
	}
}
