package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/progress"
)

func TestFormatLineActive(t *testing.T) {
	st := state{
		Iteration:   2,
		TaskID:      "feat-001",
		Description: "Add a health endpoint",
		Started:     time.Now(),
		Active:      true,
	}

	line := formatLine(st)
	for _, want := range []string{"Cycle 2", "feat-001", "Add a health endpoint"} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %s", want, line)
		}
	}
}

func TestFormatLineInactiveIsEmpty(t *testing.T) {
	if line := formatLine(state{}); line != "" {
		t.Errorf("inactive state should render empty, got %q", line)
	}
}

func TestFormatLineTruncatesDescription(t *testing.T) {
	st := state{
		Iteration:   1,
		TaskID:      "t1",
		Description: strings.Repeat("x", 100),
		Started:     time.Now(),
		Active:      true,
	}

	line := formatLine(st)
	if !strings.Contains(line, "...") {
		t.Errorf("long description should be truncated: %s", line)
	}
	if strings.Contains(line, strings.Repeat("x", 60)) {
		t.Errorf("description not truncated: %s", line)
	}
}

func TestCycleFinishedPrintsResult(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	d.CycleStarted(1, &backlog.Task{ID: "t1", Description: "first"})
	d.CycleFinished(1, progress.Record{
		TaskID:       "t1",
		Status:       progress.StatusCompleted,
		BuildOutcome: "ok",
	})

	out := buf.String()
	for _, want := range []string{"cycle 1", "t1", progress.StatusCompleted, "ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStartStopIdempotent(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	d.Start()
	d.Start()
	d.Stop()
	d.Stop()
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "00:45"},
		{2*time.Minute + 5*time.Second, "02:05"},
		{time.Hour + 3*time.Minute + 7*time.Second, "01:03:07"},
	}
	for _, c := range cases {
		if got := formatDuration(c.d); got != c.want {
			t.Errorf("formatDuration(%s): got %q, want %q", c.d, got, c.want)
		}
	}
}
