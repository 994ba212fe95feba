package backlog

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestRunLockAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")
	lock := NewRunLock(path)

	if err := lock.Acquire(); err != nil {
		t.Fatalf("failed to acquire lock: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("lock file missing after acquire: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("lock file should contain a PID, got %q", string(data))
	}
	if pid != os.Getpid() {
		t.Errorf("lock PID: got %d, want %d", pid, os.Getpid())
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("failed to release lock: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lock file should be removed after release")
	}
}

func TestRunLockRejectsLiveHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	// Our own PID is always a live process.
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		t.Fatalf("failed to write lock file: %v", err)
	}

	lock := NewRunLock(path)
	if err := lock.Acquire(); err == nil {
		t.Error("expected acquire to fail while holder is alive")
		lock.Release()
	}
}

func TestRunLockCleansStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	// Non-numeric content is treated as a stale lock.
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatalf("failed to write lock file: %v", err)
	}

	lock := NewRunLock(path)
	if err := lock.Acquire(); err != nil {
		t.Fatalf("expected stale lock cleanup to succeed, got %v", err)
	}
	defer lock.Release()

	data, _ := os.ReadFile(path)
	if strings.TrimSpace(string(data)) != strconv.Itoa(os.Getpid()) {
		t.Errorf("lock should now hold our PID, got %q", string(data))
	}
}

func TestRunLockReleaseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")
	lock := NewRunLock(path)

	if err := lock.Release(); err != nil {
		t.Errorf("releasing a non-existent lock should succeed, got %v", err)
	}
}
