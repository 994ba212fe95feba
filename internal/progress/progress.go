// Package progress appends human-readable session records to a project's
// progress log. The log is append-only: records are never rewritten, and
// the only ordering guarantee is chronological append order. Nothing in the
// harness parses it back; it exists for humans and for the agent's context.
package progress

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Record statuses.
const (
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusInProgress = "IN_PROGRESS"
)

// Record is one session entry: the outcome of a single run-loop cycle.
type Record struct {
	Session       int
	Timestamp     time.Time
	TaskID        string
	Status        string
	Summary       string
	ModifiedFiles []string
	BuildOutcome  string
}

// Logger appends records to the progress log file.
type Logger struct {
	path string
}

// NewLogger creates a logger for the given progress log path.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Append writes one record to the end of the log, creating the file if
// needed.
func (l *Logger) Append(rec Record) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[session %d] %s task=%s status=%s\n",
		rec.Session, rec.Timestamp.Format("2006-01-02 15:04:05"), rec.TaskID, rec.Status))
	if rec.Summary != "" {
		sb.WriteString(fmt.Sprintf("  summary: %s\n", rec.Summary))
	}
	if rec.BuildOutcome != "" {
		sb.WriteString(fmt.Sprintf("  build: %s\n", rec.BuildOutcome))
	}
	if len(rec.ModifiedFiles) > 0 {
		sb.WriteString("  modified:\n")
		for _, file := range rec.ModifiedFiles {
			sb.WriteString(fmt.Sprintf("    - %s\n", file))
		}
	}
	sb.WriteString("\n")

	return l.append(sb.String())
}

// WriteHeader writes the initial log banner for a freshly initialized
// project.
func (l *Logger) WriteHeader(projectName string, now time.Time) error {
	header := fmt.Sprintf("# Progress Log - %s\n# Created: %s\n\n",
		projectName, now.Format("2006-01-02 15:04"))
	return l.append(header)
}

func (l *Logger) append(text string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open progress log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("failed to append progress record: %w", err)
	}
	return nil
}
