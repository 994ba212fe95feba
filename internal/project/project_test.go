package project

import (
	"os"
	"path/filepath"
	"testing"
)

func makeProject(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(dir, StateDir), 0755); err != nil {
		t.Fatalf("failed to create state dir: %v", err)
	}
	path := filepath.Join(dir, StateDir, "feature_list.json")
	if err := os.WriteFile(path, []byte(`{"features": []}`), 0644); err != nil {
		t.Fatalf("failed to write feature list: %v", err)
	}
	return dir
}

func TestProjectPaths(t *testing.T) {
	p := Project{Dir: "/work/webapp"}

	if p.Name() != "webapp" {
		t.Errorf("Name: got %q, want webapp", p.Name())
	}
	if p.StatePath() != "/work/webapp/.backloop" {
		t.Errorf("StatePath: got %q", p.StatePath())
	}
	if p.FeatureListPath() != "/work/webapp/.backloop/feature_list.json" {
		t.Errorf("FeatureListPath: got %q", p.FeatureListPath())
	}
	if p.ProgressLogPath() != "/work/webapp/.backloop/progress.log" {
		t.Errorf("ProgressLogPath: got %q", p.ProgressLogPath())
	}
	if p.ConfigPath() != "/work/webapp/.backloop/config.yaml" {
		t.Errorf("ConfigPath: got %q", p.ConfigPath())
	}
	if p.LockPath() != "/work/webapp/.backloop/run.lock" {
		t.Errorf("LockPath: got %q", p.LockPath())
	}
}

func TestScanFindsSiblings(t *testing.T) {
	root := t.TempDir()
	makeProject(t, root, "webapp")
	makeProject(t, root, "api")

	// A directory without a feature list is not a project.
	if err := os.MkdirAll(filepath.Join(root, "scratch"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	projects, err := Scan(root)
	if err != nil {
		t.Fatalf("failed to scan: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("projects: got %d, want 2", len(projects))
	}
	// Sorted by path.
	if projects[0].Name() != "api" || projects[1].Name() != "webapp" {
		t.Errorf("unexpected order: %s, %s", projects[0].Name(), projects[1].Name())
	}
}

func TestScanFindsProjectAtRoot(t *testing.T) {
	parent := t.TempDir()
	root := makeProject(t, parent, "webapp")

	// Scanning from inside an initialized project must find that project.
	projects, err := Scan(root)
	if err != nil {
		t.Fatalf("failed to scan: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects: got %d, want 1", len(projects))
	}
	if projects[0].Dir != root {
		t.Errorf("Dir: got %q, want %q", projects[0].Dir, root)
	}
}

func TestScanRootListedOnce(t *testing.T) {
	parent := t.TempDir()
	root := makeProject(t, parent, "webapp")
	makeProject(t, parent, "api")

	projects, err := Scan(root)
	if err != nil {
		t.Fatalf("failed to scan: %v", err)
	}
	counts := make(map[string]int)
	for _, p := range projects {
		counts[p.Dir]++
	}
	if counts[root] != 1 {
		t.Errorf("root project listed %d times, want 1", counts[root])
	}
	if len(projects) != 2 {
		t.Errorf("projects: got %d, want 2", len(projects))
	}
}

func TestScanSkipsHiddenAndVendorDirs(t *testing.T) {
	root := t.TempDir()
	makeProject(t, root, ".hidden")
	makeProject(t, root, "node_modules")
	makeProject(t, root, "real")

	projects, err := Scan(root)
	if err != nil {
		t.Fatalf("failed to scan: %v", err)
	}
	if len(projects) != 1 || projects[0].Name() != "real" {
		t.Errorf("expected only the real project, got %v", projects)
	}
}

func TestResolveAbsolutePath(t *testing.T) {
	proj, err := Resolve("/anywhere", "/work/webapp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Dir != "/work/webapp" {
		t.Errorf("Dir: got %q", proj.Dir)
	}
}

func TestResolveRelativeName(t *testing.T) {
	root := t.TempDir()
	dir := makeProject(t, root, "webapp")

	proj, err := Resolve(root, "webapp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Dir != dir {
		t.Errorf("Dir: got %q, want %q", proj.Dir, dir)
	}
}

func TestResolveSiblingOfRoot(t *testing.T) {
	parent := t.TempDir()
	dir := makeProject(t, parent, "webapp")
	harnessDir := filepath.Join(parent, "harness")
	if err := os.MkdirAll(harnessDir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	proj, err := Resolve(harnessDir, "webapp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Dir != dir {
		t.Errorf("Dir: got %q, want sibling %q", proj.Dir, dir)
	}
}

func TestDetectGoProject(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module demo\n"), 0644); err != nil {
		t.Fatalf("failed to write go.mod: %v", err)
	}

	info := Detect(dir)
	if info.Type != "go" {
		t.Errorf("Type: got %q, want go", info.Type)
	}
	if info.TestCmd != "go test ./..." {
		t.Errorf("TestCmd: got %q", info.TestCmd)
	}
}

func TestDetectNodeProject(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write package.json: %v", err)
	}

	info := Detect(dir)
	if info.Type != "nodejs" {
		t.Errorf("Type: got %q, want nodejs", info.Type)
	}
}

func TestDetectUnknownProject(t *testing.T) {
	info := Detect(t.TempDir())
	if info.Type != "unknown" {
		t.Errorf("Type: got %q, want unknown", info.Type)
	}
	if info.BuildCmd != "" {
		t.Errorf("unknown stack should have no build command, got %q", info.BuildCmd)
	}
}

func TestDetectFirstMarkerWins(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"go.mod", "package.json"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", f, err)
		}
	}

	info := Detect(dir)
	if info.Type != "go" {
		t.Errorf("Type: got %q, want go (first marker)", info.Type)
	}
}
