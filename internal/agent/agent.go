// Package agent invokes the external coding-agent CLI as a subprocess.
// The agent's side effects (editing the target project, flipping passes in
// the feature list) are entirely external; this package only launches the
// process and captures its exit status.
package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/backloop-dev/backloop/internal/logging"
)

// ErrToolNotFound means the agent executable could not be located.
// This is fatal for the whole run loop; there is nothing to retry.
var ErrToolNotFound = errors.New("agent CLI not found")

// TimedOutExitCode is the sentinel exit code reported when an invocation
// hits its wall-clock timeout.
const TimedOutExitCode = -1

// CommandContext is the function used to create exec.Cmd instances.
// It can be replaced in tests to mock command execution.
var CommandContext = exec.CommandContext

// Result captures one completed (or timed out) agent invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// Invoker launches the configured agent CLI with a prompt.
type Invoker struct {
	command        string
	autoAcceptFlag string
	maxTurns       int
	timeout        time.Duration
	workDir        string
}

// NewInvoker creates an Invoker for the given agent command.
func NewInvoker(command, autoAcceptFlag string, maxTurns int, timeout time.Duration) *Invoker {
	return &Invoker{
		command:        command,
		autoAcceptFlag: autoAcceptFlag,
		maxTurns:       maxTurns,
		timeout:        timeout,
	}
}

// WithWorkDir sets the working directory for the subprocess.
func (inv *Invoker) WithWorkDir(dir string) *Invoker {
	inv.workDir = dir
	return inv
}

// CheckAvailable verifies the agent executable exists in PATH.
func (inv *Invoker) CheckAvailable() error {
	if _, err := exec.LookPath(inv.command); err != nil {
		return fmt.Errorf("%w: %q is not in PATH", ErrToolNotFound, inv.command)
	}
	return nil
}

// Invoke runs the agent once with the given prompt and blocks until it
// exits or the wall-clock timeout elapses. On timeout the subprocess is
// killed and the result carries TimedOut and a sentinel exit code; timeouts
// are reported, never retried here.
func (inv *Invoker) Invoke(ctx context.Context, prompt string) (*Result, error) {
	if err := inv.CheckAvailable(); err != nil {
		return nil, err
	}

	runCtx := ctx
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	args := []string{
		"-p", prompt,
		inv.autoAcceptFlag,
		fmt.Sprintf("--max-turns=%d", inv.maxTurns),
	}
	cmd := CommandContext(runCtx, inv.command, args...)
	if inv.workDir != "" {
		cmd.Dir = inv.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := logging.GetLogger()
	log.WithField("command", inv.command).Debug("invoking agent")

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		result.TimedOut = true
		result.ExitCode = TimedOutExitCode
		log.WithField("duration", duration.Round(time.Second)).Warn("agent invocation timed out")
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// The command could not be started at all.
		return nil, fmt.Errorf("failed to run agent: %w", err)
	}

	result.ExitCode = 0
	return result, nil
}
