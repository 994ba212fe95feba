package backlog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// RunLock is an advisory PID lock guarding a project's state directory.
// It prevents two harness instances from driving the same backlog at once.
// The lock is held for the duration of a run and released on all exit paths;
// locks left behind by dead processes are detected and cleaned up.
type RunLock struct {
	path string
}

// NewRunLock creates a lock manager for the given lock file path.
func NewRunLock(path string) *RunLock {
	return &RunLock{path: path}
}

// Acquire attempts to take the lock, failing if another live process holds it.
func (l *RunLock) Acquire() error {
	if err := l.tryCreate(); err == nil {
		return nil
	} else if !os.IsExist(err) {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	// Lock file exists - decide whether it is stale.
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("failed to read existing lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err == nil && processExists(pid) {
		return fmt.Errorf("another harness is already running this project (PID %d)", pid)
	}

	// Stale or garbage lock - remove and retry once.
	if err := os.Remove(l.path); err != nil {
		return fmt.Errorf("failed to remove stale lock file: %w", err)
	}
	if err := l.tryCreate(); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("lock acquired by another process during retry")
		}
		return fmt.Errorf("failed to create lock file on retry: %w", err)
	}
	return nil
}

// tryCreate attempts atomic lock creation with O_EXCL and records our PID.
func (l *RunLock) tryCreate() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, writeErr := fmt.Fprintf(f, "%d", os.Getpid())
	f.Close()
	if writeErr != nil {
		os.Remove(l.path)
		return fmt.Errorf("failed to write lock file: %w", writeErr)
	}
	return nil
}

// Release removes the lock file. Idempotent.
func (l *RunLock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// processExists checks for a live process using signal 0.
func processExists(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
