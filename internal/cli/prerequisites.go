package cli

import (
	"fmt"
	"os/exec"
)

// PrerequisiteError is a failed environment check with remediation info.
type PrerequisiteError struct {
	Check   string
	Message string
	Help    string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("%s: %s\n\n%s", e.Check, e.Message, e.Help)
}

// checkAgentCLI verifies the configured coding-agent executable is in PATH.
// Invocations check again at run time; this front-loads the common mistake.
func checkAgentCLI(command string) error {
	if _, err := exec.LookPath(command); err != nil {
		return &PrerequisiteError{
			Check:   "Agent CLI",
			Message: fmt.Sprintf("%q not found in PATH", command),
			Help:    fmt.Sprintf("Install the agent CLI or set agent.command in .backloop/config.yaml to the right executable (currently %q).", command),
		}
	}
	return nil
}
