package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/backloop-dev/backloop/internal/config"
	"github.com/backloop-dev/backloop/internal/project"
	"github.com/backloop-dev/backloop/internal/runner"
)

// ExitError carries a process exit code from a command back to main.
// Outcomes are not errors; they just need distinct codes for CI.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// resolveProject turns the --project flag into a Project, falling back to
// the first discovered project when the flag is empty.
func resolveProject() (project.Project, error) {
	wd, err := os.Getwd()
	if err != nil {
		return project.Project{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	if projectFlag != "" {
		return project.Resolve(wd, projectFlag)
	}

	projects, err := project.Scan(wd)
	if err != nil {
		return project.Project{}, err
	}
	if len(projects) == 0 {
		return project.Project{}, fmt.Errorf("no projects found; run `backloop init <dir>` or pass --project")
	}
	return projects[0], nil
}

// loadLoop resolves the project, loads its config, and builds a run loop.
func loadLoop() (*runner.Loop, project.Project, *config.Config, error) {
	proj, err := resolveProject()
	if err != nil {
		return nil, project.Project{}, nil, err
	}

	cfg, err := config.Load(proj.ConfigPath())
	if err != nil {
		return nil, project.Project{}, nil, err
	}

	return runner.New(proj, cfg), proj, cfg, nil
}

// printSummary writes the machine-readable halt summary to stdout.
func printSummary(summary *runner.Summary) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", summary)
		return
	}
	fmt.Println(string(data))
}

// outcomeExit converts a summary into the command result: nil for exit
// code 0, an ExitError otherwise.
func outcomeExit(summary *runner.Summary) error {
	for _, o := range []runner.Outcome{
		runner.OutcomeDone,
		runner.OutcomeBlocked,
		runner.OutcomeFatal,
		runner.OutcomeToolNotFound,
		runner.OutcomeCapReached,
		runner.OutcomeCycleDone,
		runner.OutcomeCancelled,
	} {
		if o.String() == summary.Outcome {
			if code := o.ExitCode(); code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		}
	}
	return nil
}
