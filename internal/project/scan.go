package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are directory names never considered project candidates.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
}

// Resolve turns a project name or path into a Project.
// Absolute paths are used as-is. Relative names are tried against the
// working directory, then its parent (the harness commonly lives as a
// sibling of the projects it drives).
func Resolve(root, name string) (Project, error) {
	if filepath.IsAbs(name) {
		return Project{Dir: filepath.Clean(name)}, nil
	}

	candidates := []string{
		filepath.Join(root, name),
		filepath.Join(filepath.Dir(root), name),
	}
	for _, dir := range candidates {
		if hasStateDir(dir) {
			return Project{Dir: dir}, nil
		}
	}

	// Fall back to the first candidate even without a state dir so that
	// callers can report a missing feature list for it.
	return Project{Dir: candidates[0]}, nil
}

// Scan discovers projects (directories holding a feature list) under the
// given root and its parent directory. Results are sorted by path.
func Scan(root string) ([]Project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan root: %w", err)
	}

	seen := make(map[string]bool)
	var projects []Project

	consider := func(dir string) {
		if seen[dir] {
			return
		}
		seen[dir] = true
		if hasStateDir(dir) {
			projects = append(projects, Project{Dir: dir})
		}
	}

	// The scan root itself may be an initialized project; it also shows up
	// as a child of the parent scan, so it must stay a candidate.
	consider(absRoot)

	scanned := make(map[string]bool)
	for _, dir := range []string{absRoot, filepath.Dir(absRoot)} {
		if scanned[dir] {
			continue
		}
		scanned[dir] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || skipDirs[entry.Name()] {
				continue
			}
			consider(filepath.Join(dir, entry.Name()))
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Dir < projects[j].Dir
	})
	return projects, nil
}

// hasStateDir reports whether dir contains a backloop feature list.
func hasStateDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, StateDir, featureListFileName))
	return err == nil && !info.IsDir()
}
