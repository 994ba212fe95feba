// Package msgs defines shared message types for TUI view transitions.
package msgs

import "github.com/backloop-dev/backloop/internal/project"

// GoToHomeMsg signals transition to the home view.
type GoToHomeMsg struct{}

// StartRunMsg signals that the user wants to start a run for a project.
// Continuous selects the repeating loop instead of a single cycle.
type StartRunMsg struct {
	Project    project.Project
	Continuous bool
}
