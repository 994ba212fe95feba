package runner

// Outcome is the terminal state of a run (or of a single cycle).
type Outcome int

const (
	// OutcomeDone means the backlog is exhausted: every task passes.
	OutcomeDone Outcome = iota
	// OutcomeBlocked means pending tasks exist but none is eligible
	// (circular or unsatisfiable dependencies). A configuration defect,
	// reported distinctly from success.
	OutcomeBlocked
	// OutcomeFatal covers unrecoverable errors: malformed task list,
	// oversized prompt, unexpected invocation failures.
	OutcomeFatal
	// OutcomeToolNotFound means the agent executable is missing from PATH.
	OutcomeToolNotFound
	// OutcomeCapReached means continuous mode hit its iteration cap.
	// Not an error: the backlog simply was not finished in time.
	OutcomeCapReached
	// OutcomeCycleDone means single mode performed its one cycle and the
	// backlog still has work left.
	OutcomeCycleDone
	// OutcomeCancelled means an operator signal interrupted the run.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeFatal:
		return "fatal"
	case OutcomeToolNotFound:
		return "tool_not_found"
	case OutcomeCapReached:
		return "cap_reached"
	case OutcomeCycleDone:
		return "cycle_done"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ExitCode maps an outcome to a process exit code so calling scripts and CI
// can branch on the result.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeDone, OutcomeCycleDone:
		return 0
	case OutcomeBlocked:
		return 2
	case OutcomeFatal:
		return 3
	case OutcomeToolNotFound:
		return 4
	case OutcomeCapReached:
		return 5
	default:
		return 1
	}
}

// Summary is the machine-readable result printed on every halt.
type Summary struct {
	Outcome       string `json:"outcome"`
	Project       string `json:"project"`
	TotalFeatures int    `json:"total_features"`
	Completed     int    `json:"completed"`
	Pending       int    `json:"pending"`
	LastTaskID    string `json:"last_task_id,omitempty"`
	Iterations    int    `json:"iterations"`
	Reason        string `json:"reason,omitempty"`
}
