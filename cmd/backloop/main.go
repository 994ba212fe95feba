package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/backloop-dev/backloop/internal/cli"
	"github.com/backloop-dev/backloop/internal/tui"
)

func main() {
	// If no args, launch the interactive TUI; otherwise route to the CLI.
	if len(os.Args) == 1 {
		if err := tui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := cli.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
