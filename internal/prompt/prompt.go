// Package prompt turns a selected task into the instruction string handed to
// the external coding agent.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/project"
)

// ErrPromptTooLarge means the task's combined steps exceed the configured
// maximum. The builder refuses rather than truncating, since a silently
// shortened prompt would hand the agent an incomplete specification.
var ErrPromptTooLarge = errors.New("prompt exceeds maximum size")

// Builder constructs agent prompts. Build is a pure function of the task and
// project context; two calls with the same inputs yield the same string.
type Builder struct {
	maxBytes int
}

// NewBuilder creates a Builder with the given size limit in bytes.
func NewBuilder(maxBytes int) *Builder {
	return &Builder{maxBytes: maxBytes}
}

// Build renders the instruction prompt for one task.
func (b *Builder) Build(task *backlog.Task, proj project.Project) (string, error) {
	var sb strings.Builder

	name := proj.Name()
	sb.WriteString(fmt.Sprintf("Continue development of the **%s** project.\n\n", name))
	sb.WriteString(fmt.Sprintf("IMPORTANT: only touch files under the %s project directory.\n\n", name))

	sb.WriteString("## Current Task\n")
	sb.WriteString(fmt.Sprintf("- ID: %s\n", task.ID))
	sb.WriteString(fmt.Sprintf("- Description: %s\n", task.Description))
	sb.WriteString(fmt.Sprintf("- Priority: %s\n", priorityOrDefault(task.Priority)))
	if task.Category != "" {
		sb.WriteString(fmt.Sprintf("- Category: %s\n", task.Category))
	}
	sb.WriteString("\n## Steps\n")
	sb.WriteString(formatSteps(task.Steps))
	sb.WriteString("\n")

	sb.WriteString("## Requirements\n")
	sb.WriteString(fmt.Sprintf("1. Read %s/feature_list.json to confirm the task state\n", project.StateDir))
	sb.WriteString("2. Implement the task as described\n")
	sb.WriteString("3. Verify with the project's build and tests before marking complete\n")
	sb.WriteString(fmt.Sprintf("4. Only after verification, set \"passes\": true for this task in %s/feature_list.json\n", project.StateDir))
	sb.WriteString(fmt.Sprintf("5. Append a short progress note to %s/progress.log\n\n", project.StateDir))

	sb.WriteString("## Reminders\n")
	sb.WriteString("- Work on this one task only\n")
	sb.WriteString("- Never mark passes: true without a passing verification\n")
	sb.WriteString("- If you hit a blocker, record it in the progress log and stop\n")

	result := sb.String()
	if len(result) > b.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrPromptTooLarge, len(result), b.maxBytes)
	}
	return result, nil
}

// formatSteps numbers the ordered step list. Order is preserved exactly;
// steps are never dropped or shortened.
func formatSteps(steps []string) string {
	if len(steps) == 0 {
		return "No specific steps; implement as described.\n"
	}
	var sb strings.Builder
	for i, step := range steps {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	return sb.String()
}

func priorityOrDefault(p string) string {
	if p == "" {
		return backlog.PriorityMedium
	}
	return p
}
