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

var (
	intervalFlag      int
	maxIterationsFlag int
)

func init() {
	continuousCmd.Flags().IntVar(&intervalFlag, "interval", 0, "Seconds to sleep between cycles (overrides config)")
	continuousCmd.Flags().IntVar(&maxIterationsFlag, "max-iterations", 0, "Maximum cycles before halting (overrides config)")
}

var continuousCmd = &cobra.Command{
	Use:   "continuous",
	Short: "Repeat cycles until the backlog is done, blocked, or capped",
	Long:  `Continuous repeats run cycles with a sleep in between, halting when every task passes, when pending tasks are all blocked, on a fatal error, or when the iteration cap is reached.`,
	RunE:  runContinuous,
}

func runContinuous(cmd *cobra.Command, args []string) error {
	loop, proj, cfg, err := loadLoop()
	if err != nil {
		return err
	}

	if err := checkAgentCLI(cfg.Agent.Command); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return &ExitError{Code: runner.OutcomeToolNotFound.ExitCode()}
	}

	if intervalFlag > 0 {
		cfg.Loop.IntervalSeconds = intervalFlag
	}
	if maxIterationsFlag > 0 {
		cfg.Loop.MaxIterations = maxIterationsFlag
	}
	loop = runner.New(proj, cfg)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d := display.New(os.Stderr)
	d.Start()
	summary, err := loop.WithReporter(d).RunContinuous(ctx)
	d.Stop()
	if err != nil && summary == nil {
		return err
	}

	printSummary(summary)
	return outcomeExit(summary)
}
