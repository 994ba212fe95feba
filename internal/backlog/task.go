package backlog

// Priority values for tasks. Unknown values rank as medium.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task represents a single unit of backlog work.
// Passes is owned by the external agent: it flips to true only after the
// agent has verified the work (build/tests), never based on exit codes.
type Task struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Priority     string   `json:"priority"`
	Steps        []string `json:"steps,omitempty"`
	Passes       bool     `json:"passes"`
	Dependencies []string `json:"dependencies,omitempty"`

	// Carried through unmodified; no effect on scheduling.
	Category    string `json:"category,omitempty"`
	Module      string `json:"module,omitempty"`
	Author      string `json:"author,omitempty"`
	Notes       string `json:"notes,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// PriorityRank maps a priority string to its sort rank (high first).
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// TaskList is the full backlog document for one project.
// The counters are derived from Features and recomputed on every save and
// re-load; they are never treated as authoritative on their own.
type TaskList struct {
	ProjectSpec   string `json:"project_spec,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	TotalFeatures int    `json:"total_features"`
	Completed     int    `json:"completed"`
	Pending       int    `json:"pending"`
	Features      []Task `json:"features"`
}

// Recount recomputes the summary counters from the feature sequence.
// The external agent often flips `passes` without touching the counters,
// so every consumer recounts after loading.
func (l *TaskList) Recount() {
	completed := 0
	for i := range l.Features {
		if l.Features[i].Passes {
			completed++
		}
	}
	l.TotalFeatures = len(l.Features)
	l.Completed = completed
	l.Pending = l.TotalFeatures - completed
}

// AllDone returns true if every feature has passed.
func (l *TaskList) AllDone() bool {
	for i := range l.Features {
		if !l.Features[i].Passes {
			return false
		}
	}
	return true
}

// FindTask returns the task with the given id, or nil.
func (l *TaskList) FindTask(id string) *Task {
	for i := range l.Features {
		if l.Features[i].ID == id {
			return &l.Features[i]
		}
	}
	return nil
}
