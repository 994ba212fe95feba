// Package runner drives the harness run loop: select a task, invoke the
// external agent, re-read the backlog, log progress, decide whether to
// continue. Strictly sequential; one subprocess in flight at a time.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backloop-dev/backloop/internal/agent"
	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/config"
	"github.com/backloop-dev/backloop/internal/git"
	"github.com/backloop-dev/backloop/internal/logging"
	"github.com/backloop-dev/backloop/internal/progress"
	"github.com/backloop-dev/backloop/internal/project"
	"github.com/backloop-dev/backloop/internal/prompt"
)

// Invoker launches the external agent. Satisfied by *agent.Invoker;
// replaced by a mock in tests.
type Invoker interface {
	CheckAvailable() error
	Invoke(ctx context.Context, prompt string) (*agent.Result, error)
}

// Reporter receives cycle lifecycle notifications. Both the CLI status line
// and the TUI run view implement it. All methods may be called from the
// run-loop goroutine.
type Reporter interface {
	CycleStarted(iteration int, task *backlog.Task)
	CycleFinished(iteration int, rec progress.Record)
}

// Loop orchestrates run cycles for one project.
//
// The task list is global mutable state shared with the external agent, so
// it is re-read from disk at the start of every cycle and again after every
// invocation; nothing is cached across cycles.
type Loop struct {
	proj     project.Project
	cfg      *config.Config
	invoker  Invoker
	builder  *prompt.Builder
	log      *progress.Logger
	lock     *backlog.RunLock
	reporter Reporter
}

// New creates a Loop wired with the real agent invoker.
func New(proj project.Project, cfg *config.Config) *Loop {
	inv := agent.NewInvoker(
		cfg.Agent.Command,
		cfg.Agent.AutoAcceptFlag,
		cfg.Agent.MaxTurns,
		cfg.Timeout(),
	).WithWorkDir(proj.Dir)

	return &Loop{
		proj:    proj,
		cfg:     cfg,
		invoker: inv,
		builder: prompt.NewBuilder(cfg.Prompt.MaxBytes),
		log:     progress.NewLogger(proj.ProgressLogPath()),
		lock:    backlog.NewRunLock(proj.LockPath()),
	}
}

// WithInvoker sets a custom invoker (useful for testing).
func (l *Loop) WithInvoker(inv Invoker) *Loop {
	l.invoker = inv
	return l
}

// WithReporter sets a cycle reporter.
func (l *Loop) WithReporter(r Reporter) *Loop {
	l.reporter = r
	return l
}

// Status performs the selection phase read-only: no invocation, no file
// mutation. Returns the summary and the next eligible task (nil if none).
func (l *Loop) Status() (*Summary, *backlog.Task, error) {
	list, err := backlog.Load(l.proj.FeatureListPath())
	if err != nil {
		if errors.Is(err, backlog.ErrNotFound) {
			return &Summary{
				Outcome: OutcomeDone.String(),
				Project: l.proj.Name(),
				Reason:  "no feature list; nothing to do",
			}, nil, nil
		}
		return nil, nil, err
	}

	next := backlog.SelectNext(list)
	summary := l.summarize(list, 0)
	switch {
	case next != nil:
		summary.Outcome = "pending"
		summary.LastTaskID = next.ID
	case list.Pending == 0:
		summary.Outcome = OutcomeDone.String()
	default:
		summary.Outcome = OutcomeBlocked.String()
		summary.Reason = "pending tasks remain but none is eligible"
	}
	return summary, next, nil
}

// RunSingle performs exactly one select/invoke/evaluate cycle.
func (l *Loop) RunSingle(ctx context.Context) (*Summary, error) {
	if err := l.lock.Acquire(); err != nil {
		return nil, err
	}
	defer l.lock.Release()

	outcome, taskID, err := l.runCycle(ctx, 1)
	return l.finish(outcome, taskID, 1, err)
}

// RunContinuous repeats cycles with an interruptible sleep in between,
// until the backlog is done, blocked, a fatal condition occurs, or the
// iteration cap is reached.
func (l *Loop) RunContinuous(ctx context.Context) (*Summary, error) {
	if err := l.lock.Acquire(); err != nil {
		return nil, err
	}
	defer l.lock.Release()

	log := logging.GetLogger()
	maxIterations := l.cfg.Loop.MaxIterations

	var lastTaskID string
	var lastErr error
	iteration := 0

	for iteration < maxIterations {
		iteration++

		outcome, taskID, err := l.runCycle(ctx, iteration)
		if taskID != "" {
			lastTaskID = taskID
		}
		switch outcome {
		case OutcomeCycleDone:
			// More work remains; fall through to the sleep.
		case OutcomeDone, OutcomeBlocked, OutcomeFatal, OutcomeToolNotFound, OutcomeCancelled:
			return l.finish(outcome, lastTaskID, iteration, err)
		}
		lastErr = err

		if iteration >= maxIterations {
			break
		}

		log.WithField("interval", l.cfg.Interval()).Debug("sleeping before next cycle")
		if !sleepCtx(ctx, l.cfg.Interval()) {
			return l.finish(OutcomeCancelled, lastTaskID, iteration, nil)
		}
	}

	return l.finish(OutcomeCapReached, lastTaskID, iteration, lastErr)
}

// runCycle performs one SELECTING -> INVOKING -> EVALUATING pass.
// The returned outcome is OutcomeCycleDone when the loop should continue.
func (l *Loop) runCycle(ctx context.Context, iteration int) (Outcome, string, error) {
	log := logging.GetLogger()

	// SELECTING: always re-read from disk; the agent mutates the file.
	list, err := backlog.Load(l.proj.FeatureListPath())
	if err != nil {
		if errors.Is(err, backlog.ErrNotFound) {
			return OutcomeDone, "", nil
		}
		return OutcomeFatal, "", err
	}

	task := backlog.SelectNext(list)
	if task == nil {
		if list.Pending == 0 {
			return OutcomeDone, "", nil
		}
		return OutcomeBlocked, "", fmt.Errorf("%d pending tasks are blocked by unmet dependencies", list.Pending)
	}

	log.WithFields(map[string]interface{}{
		"iteration": iteration,
		"task":      task.ID,
		"priority":  task.Priority,
	}).Info("starting cycle")
	if l.reporter != nil {
		l.reporter.CycleStarted(iteration, task)
	}

	// INVOKING
	promptText, err := l.builder.Build(task, l.proj)
	if err != nil {
		// Oversized prompts never shrink on retry; stop instead of spinning.
		return OutcomeFatal, task.ID, err
	}

	result, err := l.invoker.Invoke(ctx, promptText)
	if err != nil {
		if errors.Is(err, agent.ErrToolNotFound) {
			return OutcomeToolNotFound, task.ID, err
		}
		return OutcomeFatal, task.ID, err
	}
	if ctx.Err() != nil {
		return OutcomeCancelled, task.ID, nil
	}

	// EVALUATING: the re-loaded passes flag is the only source of truth for
	// completion; the agent's exit code is informational.
	rec := l.evaluate(iteration, task.ID, result)
	if err := l.log.Append(rec); err != nil {
		log.WithError(err).Warn("failed to append progress record")
	}
	if l.reporter != nil {
		l.reporter.CycleFinished(iteration, rec)
	}

	return OutcomeCycleDone, task.ID, nil
}

// evaluate re-reads the task list after an invocation and builds the
// progress record for the cycle. Counters are recomputed and persisted to
// tolerate an agent that only flips `passes`.
func (l *Loop) evaluate(iteration int, taskID string, result *agent.Result) progress.Record {
	log := logging.GetLogger()

	rec := progress.Record{
		Session:       iteration,
		Timestamp:     time.Now(),
		TaskID:        taskID,
		ModifiedFiles: git.ModifiedFiles(l.proj.Dir),
	}

	passed := false
	list, err := backlog.Load(l.proj.FeatureListPath())
	if err != nil {
		log.WithError(err).Warn("failed to re-read feature list after invocation")
	} else {
		if t := list.FindTask(taskID); t != nil {
			passed = t.Passes
		}
		if err := backlog.Save(l.proj.FeatureListPath(), list); err != nil {
			log.WithError(err).Warn("failed to persist recomputed counters")
		}
	}

	duration := result.Duration.Round(time.Second)
	switch {
	case passed:
		rec.Status = progress.StatusCompleted
		rec.BuildOutcome = "ok"
		rec.Summary = fmt.Sprintf("agent exited %d in %s; passes flipped to true", result.ExitCode, duration)
	case result.TimedOut:
		rec.Status = progress.StatusFailed
		rec.BuildOutcome = "timed out"
		rec.Summary = fmt.Sprintf("agent timed out after %s; task left unfinished", duration)
	case result.ExitCode != 0:
		rec.Status = progress.StatusFailed
		rec.BuildOutcome = fmt.Sprintf("exit %d", result.ExitCode)
		rec.Summary = fmt.Sprintf("agent exited %d in %s; task left unfinished", result.ExitCode, duration)
	default:
		rec.Status = progress.StatusInProgress
		rec.BuildOutcome = "exit 0"
		rec.Summary = fmt.Sprintf("agent exited 0 in %s but passes is still false", duration)
	}

	return rec
}

// finish builds the halt summary from the latest on-disk state.
func (l *Loop) finish(outcome Outcome, lastTaskID string, iterations int, cause error) (*Summary, error) {
	summary := &Summary{
		Outcome:    outcome.String(),
		Project:    l.proj.Name(),
		LastTaskID: lastTaskID,
		Iterations: iterations,
	}
	if cause != nil {
		summary.Reason = cause.Error()
	}

	if list, err := backlog.Load(l.proj.FeatureListPath()); err == nil {
		summary.TotalFeatures = list.TotalFeatures
		summary.Completed = list.Completed
		summary.Pending = list.Pending
	}

	switch outcome {
	case OutcomeFatal, OutcomeToolNotFound:
		return summary, cause
	default:
		return summary, nil
	}
}

func (l *Loop) summarize(list *backlog.TaskList, iterations int) *Summary {
	return &Summary{
		Project:       l.proj.Name(),
		TotalFeatures: list.TotalFeatures,
		Completed:     list.Completed,
		Pending:       list.Pending,
		Iterations:    iterations,
	}
}

// sleepCtx sleeps for d or until ctx is cancelled. Returns false when
// cancelled: continuous-mode sleeps must be interruptible by the same
// signal that cancels an in-flight invocation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
