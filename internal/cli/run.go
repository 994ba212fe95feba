package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backloop-dev/backloop/internal/display"
	"github.com/backloop-dev/backloop/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform one cycle: select a task, invoke the agent, evaluate",
	Long:  `Run selects the next eligible task, invokes the coding agent once, re-reads the feature list, and appends a progress record. Exactly one agent invocation per call.`,
	RunE:  runSingle,
}

func runSingle(cmd *cobra.Command, args []string) error {
	loop, _, cfg, err := loadLoop()
	if err != nil {
		return err
	}

	if err := checkAgentCLI(cfg.Agent.Command); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return &ExitError{Code: runner.OutcomeToolNotFound.ExitCode()}
	}

	// An interrupt must kill the in-flight agent subprocess before we exit.
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d := display.New(os.Stderr)
	d.Start()
	summary, err := loop.WithReporter(d).RunSingle(ctx)
	d.Stop()
	if err != nil && summary == nil {
		return err
	}

	printSummary(summary)
	return outcomeExit(summary)
}
