// Package testutil provides testing utilities for the backloop project.
package testutil

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/project"
)

// MockCommandFunc creates a mock command that outputs the given response.
// Usage: agent.CommandContext = testutil.MockCommandFunc(output)
func MockCommandFunc(output string) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "echo", "-n", output)
	}
}

// SetupTestDir creates a temp directory, resolves symlinks (for macOS),
// changes to it, and registers cleanup to restore the original working
// directory. Returns the resolved temp directory path.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(tmpDir); err != nil {
		t.Logf("warning: could not resolve symlinks for temp dir: %v", err)
	} else {
		tmpDir = resolved
	}

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change to temp dir: %v", err)
	}

	t.Cleanup(func() {
		os.Chdir(originalWd)
	})

	return tmpDir
}

// WriteFeatureList creates a project state dir under dir and writes the
// given tasks as its feature list. Returns the project.
func WriteFeatureList(t *testing.T, dir string, tasks []backlog.Task) project.Project {
	t.Helper()

	proj := project.Project{Dir: dir}
	if err := os.MkdirAll(proj.StatePath(), 0755); err != nil {
		t.Fatalf("failed to create state dir: %v", err)
	}

	if tasks == nil {
		tasks = []backlog.Task{}
	}
	list := backlog.TaskList{Features: tasks}
	list.Recount()
	data, err := json.MarshalIndent(&list, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal feature list: %v", err)
	}
	if err := os.WriteFile(proj.FeatureListPath(), data, 0644); err != nil {
		t.Fatalf("failed to write feature list: %v", err)
	}
	return proj
}
