package backlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Sentinel errors for Task List loading.
var (
	// ErrNotFound means the feature list file does not exist. Callers may
	// treat this as a legitimate zero-tasks state rather than a failure.
	ErrNotFound = errors.New("feature list not found")

	// ErrMalformed means the file exists but is not a valid Task List.
	// This is surfaced immediately, never silently replaced with an empty
	// list, so operator mistakes are not masked.
	ErrMalformed = errors.New("feature list is malformed")
)

// listProbe mirrors TaskList but keeps Features as a pointer so a missing
// `features` field can be told apart from an empty one.
type listProbe struct {
	ProjectSpec string  `json:"project_spec"`
	CreatedAt   string  `json:"created_at"`
	Features    *[]Task `json:"features"`
}

// Load reads and parses a Task List from the given path.
// Counters are recomputed on load to tolerate drift from the external agent.
func Load(path string) (*TaskList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var probe listProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if probe.Features == nil {
		return nil, fmt.Errorf("%w: missing required field \"features\"", ErrMalformed)
	}

	list := &TaskList{
		ProjectSpec: probe.ProjectSpec,
		CreatedAt:   probe.CreatedAt,
		Features:    *probe.Features,
	}
	list.Recount()
	return list, nil
}

// Save atomically writes the Task List to the given path with recomputed
// counters. Uses a temp file + rename so the external agent, which may read
// the same file concurrently, never observes a truncated document.
func Save(path string, list *TaskList) error {
	list.Recount()

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feature list: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
