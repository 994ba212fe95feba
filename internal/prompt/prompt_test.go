package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/project"
)

func testTask() *backlog.Task {
	return &backlog.Task{
		ID:          "feat-001",
		Description: "Add a health endpoint",
		Priority:    "high",
		Steps:       []string{"Create the handler", "Register the route", "Add a test"},
	}
}

func TestBuildIncludesTaskFields(t *testing.T) {
	b := NewBuilder(65536)
	proj := project.Project{Dir: "/tmp/webapp"}

	got, err := b.Build(testTask(), proj)
	if err != nil {
		t.Fatalf("failed to build prompt: %v", err)
	}

	for _, want := range []string{
		"webapp",
		"feat-001",
		"Add a health endpoint",
		"high",
		"1. Create the handler",
		"2. Register the route",
		"3. Add a test",
		"feature_list.json",
		"progress.log",
		"\"passes\": true",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	b := NewBuilder(65536)
	proj := project.Project{Dir: "/tmp/webapp"}

	first, err := b.Build(testTask(), proj)
	if err != nil {
		t.Fatalf("failed to build prompt: %v", err)
	}
	second, err := b.Build(testTask(), proj)
	if err != nil {
		t.Fatalf("failed to build prompt: %v", err)
	}
	if first != second {
		t.Error("two builds of the same task should be identical")
	}
}

func TestBuildNoSteps(t *testing.T) {
	b := NewBuilder(65536)
	task := &backlog.Task{ID: "feat-002", Description: "Fix the flaky test"}

	got, err := b.Build(task, project.Project{Dir: "/tmp/webapp"})
	if err != nil {
		t.Fatalf("failed to build prompt: %v", err)
	}
	if !strings.Contains(got, "No specific steps") {
		t.Error("prompt should carry the no-steps placeholder")
	}
	if !strings.Contains(got, "medium") {
		t.Error("empty priority should render as medium")
	}
}

func TestBuildStepsNeverTruncated(t *testing.T) {
	steps := make([]string, 40)
	for i := range steps {
		steps[i] = strings.Repeat("x", 50)
	}
	task := &backlog.Task{ID: "feat-003", Description: "big task", Steps: steps}

	b := NewBuilder(65536)
	got, err := b.Build(task, project.Project{Dir: "/tmp/webapp"})
	if err != nil {
		t.Fatalf("failed to build prompt: %v", err)
	}
	if !strings.Contains(got, "40. "+steps[39]) {
		t.Error("last step missing; steps must never be dropped")
	}
}

func TestBuildTooLarge(t *testing.T) {
	b := NewBuilder(128)
	task := testTask()
	task.Steps = []string{strings.Repeat("a", 500)}

	_, err := b.Build(task, project.Project{Dir: "/tmp/webapp"})
	if !errors.Is(err, ErrPromptTooLarge) {
		t.Errorf("expected ErrPromptTooLarge, got %v", err)
	}
}
