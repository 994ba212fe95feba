package cli

import (
	"github.com/spf13/cobra"

	"github.com/backloop-dev/backloop/internal/version"
)

var projectFlag string

var rootCmd = &cobra.Command{
	Use:           "backloop",
	Short:         "Backlog loop runner for AI coding agents",
	Long:          `Backloop drives an AI coding agent through a project's task backlog, one task per cycle, until every task passes or an iteration cap is reached.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project name or path (defaults to the first discovered project)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(continuousCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(initCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
