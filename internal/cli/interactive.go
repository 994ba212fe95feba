package cli

import (
	"github.com/spf13/cobra"

	"github.com/backloop-dev/backloop/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the full-screen interactive mode",
	Long:  `Interactive opens a terminal UI with a project picker and menu-driven status, single-run, and continuous actions. Running backloop with no arguments does the same.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run()
	},
}
