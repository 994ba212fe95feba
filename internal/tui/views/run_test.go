package views

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/backloop-dev/backloop/internal/progress"
	"github.com/backloop-dev/backloop/internal/project"
	"github.com/backloop-dev/backloop/internal/runner"
)

func newTestRunModel() RunModel {
	return NewRunModel(project.Project{Dir: "/work/webapp"}, false, func(tea.Msg) {})
}

func TestRunModelCycleMessages(t *testing.T) {
	m := newTestRunModel()
	m.SetSize(100, 30)

	m, _ = m.Update(CycleStartedMsg{Iteration: 1, TaskID: "t1", TaskDesc: "first task"})
	if m.iteration != 1 || m.taskID != "t1" {
		t.Errorf("cycle start not applied: iteration=%d task=%q", m.iteration, m.taskID)
	}

	m, _ = m.Update(CycleFinishedMsg{
		Iteration: 1,
		Record: progress.Record{
			TaskID:        "t1",
			Status:        progress.StatusCompleted,
			Summary:       "agent exited 0; passes flipped to true",
			ModifiedFiles: []string{"main.go"},
		},
	})

	joined := strings.Join(m.log.Lines(), "\n")
	if !strings.Contains(joined, "t1") || !strings.Contains(joined, "passes flipped") {
		t.Errorf("log missing cycle record:\n%s", joined)
	}
	if !strings.Contains(joined, "main.go") {
		t.Errorf("log missing modified file:\n%s", joined)
	}
}

func TestRunModelLoopDone(t *testing.T) {
	m := newTestRunModel()
	m.SetSize(100, 30)

	m, _ = m.Update(LoopDoneMsg{Summary: &runner.Summary{
		Outcome:       runner.OutcomeDone.String(),
		TotalFeatures: 2,
		Completed:     2,
		Iterations:    2,
	}})

	if m.State() != stateDone {
		t.Errorf("state: got %d, want done", m.State())
	}

	view := m.View()
	for _, want := range []string{"Run Finished", "done", "2/2"} {
		if !strings.Contains(view, want) {
			t.Errorf("done view missing %q:\n%s", want, view)
		}
	}
}

func TestRunModelCancellation(t *testing.T) {
	m := newTestRunModel()
	m.SetSize(100, 30)

	cancelled := false
	m, _ = m.Update(LoopStartedMsg{Cancel: func() { cancelled = true }})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.State() != stateCancelling {
		t.Errorf("state: got %d, want cancelling", m.State())
	}
	if !cancelled {
		t.Error("ctrl+c should cancel the loop context")
	}

	m, _ = m.Update(LoopDoneMsg{Summary: &runner.Summary{Outcome: runner.OutcomeCancelled.String()}})
	if m.State() != stateCancelled {
		t.Errorf("state: got %d, want cancelled", m.State())
	}
	if !strings.Contains(m.View(), "Run Cancelled") {
		t.Errorf("cancelled view:\n%s", m.View())
	}
}

func TestRunModelCancelBeforeLoopStarts(t *testing.T) {
	m := newTestRunModel()
	m.SetSize(100, 30)

	// Ctrl+C lands before the loop goroutine is wired.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.State() != stateCancelling {
		t.Errorf("state: got %d, want cancelling", m.State())
	}

	cancelled := false
	m, _ = m.Update(LoopStartedMsg{Cancel: func() { cancelled = true }})
	if !cancelled {
		t.Error("a pending cancellation should fire once the loop starts")
	}
}

func TestRunModelDoneKeysReturnHome(t *testing.T) {
	m := newTestRunModel()
	m.SetSize(100, 30)
	m, _ = m.Update(LoopDoneMsg{Summary: &runner.Summary{Outcome: runner.OutcomeDone.String()}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
}

func TestFormatDurationView(t *testing.T) {
	cases := map[string]string{
		"45s":    "00:45",
		"2m5s":   "02:05",
		"1h3m7s": "01:03:07",
	}
	for in, want := range cases {
		d, err := time.ParseDuration(in)
		if err != nil {
			t.Fatalf("bad test input %q: %v", in, err)
		}
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%s): got %q, want %q", in, got, want)
		}
	}
}
