package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/project"
	"github.com/backloop-dev/backloop/internal/runner"
	"github.com/backloop-dev/backloop/internal/testutil"
)

func TestOutcomeExitCodes(t *testing.T) {
	cases := []struct {
		outcome string
		code    int // 0 means nil error expected
	}{
		{"done", 0},
		{"cycle_done", 0},
		{"blocked", 2},
		{"fatal", 3},
		{"tool_not_found", 4},
		{"cap_reached", 5},
		{"cancelled", 1},
	}

	for _, c := range cases {
		err := outcomeExit(&runner.Summary{Outcome: c.outcome})
		if c.code == 0 {
			if err != nil {
				t.Errorf("%s: expected nil, got %v", c.outcome, err)
			}
			continue
		}
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			t.Errorf("%s: expected ExitError, got %v", c.outcome, err)
			continue
		}
		if exitErr.Code != c.code {
			t.Errorf("%s: got code %d, want %d", c.outcome, exitErr.Code, c.code)
		}
	}
}

func TestInitScaffoldsStateDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module demo\n"), 0644); err != nil {
		t.Fatalf("failed to write go.mod: %v", err)
	}

	if err := runInit(initCmd, []string{dir}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	proj := project.Project{Dir: dir}

	list, err := backlog.Load(proj.FeatureListPath())
	if err != nil {
		t.Fatalf("feature list not created: %v", err)
	}
	if len(list.Features) != 0 {
		t.Errorf("expected empty features, got %d", len(list.Features))
	}
	if !strings.Contains(list.ProjectSpec, "Go project") {
		t.Errorf("project spec should carry the detected language, got %q", list.ProjectSpec)
	}

	cfgData, err := os.ReadFile(proj.ConfigPath())
	if err != nil {
		t.Fatalf("config not created: %v", err)
	}
	if !strings.Contains(string(cfgData), "command: iflow") {
		t.Errorf("config template missing agent command:\n%s", string(cfgData))
	}

	logData, err := os.ReadFile(proj.ProgressLogPath())
	if err != nil {
		t.Fatalf("progress log not created: %v", err)
	}
	if !strings.Contains(string(logData), "# Progress Log") {
		t.Errorf("progress log missing header:\n%s", string(logData))
	}
}

func TestInitRefusesReinit(t *testing.T) {
	dir := t.TempDir()

	if err := runInit(initCmd, []string{dir}); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := runInit(initCmd, []string{dir}); err == nil {
		t.Error("second init should fail")
	}
}

func TestInitRejectsMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	if err := runInit(initCmd, []string{missing}); err == nil {
		t.Error("init on a missing directory should fail")
	}
}

func TestResolveProjectNoProjects(t *testing.T) {
	oldFlag := projectFlag
	projectFlag = ""
	t.Cleanup(func() { projectFlag = oldFlag })

	testutil.SetupTestDir(t)

	if _, err := resolveProject(); err == nil {
		t.Error("expected an error when no project exists and no flag is set")
	}
}

func TestResolveProjectDefaultsToFirstScanned(t *testing.T) {
	oldFlag := projectFlag
	projectFlag = ""
	t.Cleanup(func() { projectFlag = oldFlag })

	dir := testutil.SetupTestDir(t)
	testutil.WriteFeatureList(t, filepath.Join(dir, "webapp"), nil)

	proj, err := resolveProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Name() != "webapp" {
		t.Errorf("project: got %q, want webapp", proj.Name())
	}
}

func TestResolveProjectFlagPath(t *testing.T) {
	oldFlag := projectFlag
	t.Cleanup(func() { projectFlag = oldFlag })

	dir := t.TempDir()
	projectFlag = dir

	proj, err := resolveProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Dir != dir {
		t.Errorf("Dir: got %q, want %q", proj.Dir, dir)
	}
}

func TestCheckAgentCLI(t *testing.T) {
	if err := checkAgentCLI("sh"); err != nil {
		t.Errorf("sh should be found: %v", err)
	}
	if err := checkAgentCLI("definitely-not-a-real-binary-xyz"); err == nil {
		t.Error("expected an error for a missing binary")
	}
}
