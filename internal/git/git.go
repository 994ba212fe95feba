// Package git shells out to git to report which files the external agent
// touched during a cycle. Projects without git simply get empty file lists.
package git

import (
	"os/exec"
	"strings"
)

// ModifiedFiles returns the paths with uncommitted changes in dir, including
// staged and untracked files. Errors (no git, not a repository) yield an
// empty list: file attribution is best-effort and never blocks a cycle.
func ModifiedFiles(dir string) []string {
	cmd := exec.Command("git", "status", "--porcelain")
	if dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.Output()
	if err != nil {
		return nil
	}

	var files []string
	for _, line := range strings.Split(string(output), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		// Porcelain format: two status chars, a space, then the path.
		if len(line) > 3 {
			files = append(files, line[3:])
		} else {
			files = append(files, strings.TrimSpace(line))
		}
	}
	return files
}
