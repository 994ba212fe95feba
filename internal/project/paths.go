// Package project locates backloop projects on disk and manages their
// .backloop state directories.
package project

import "path/filepath"

// StateDir is the per-project state directory created by `backloop init`.
const StateDir = ".backloop"

const (
	featureListFileName = "feature_list.json"
	progressLogFileName = "progress.log"
	configFileName      = "config.yaml"
	lockFileName        = "run.lock"
)

// Project is a directory containing a backloop state directory.
type Project struct {
	Dir string
}

// Name returns the project's directory name.
func (p Project) Name() string {
	return filepath.Base(p.Dir)
}

// StatePath returns the path of the state directory.
func (p Project) StatePath() string {
	return filepath.Join(p.Dir, StateDir)
}

// FeatureListPath returns the path of the Task List document.
func (p Project) FeatureListPath() string {
	return filepath.Join(p.StatePath(), featureListFileName)
}

// ProgressLogPath returns the path of the append-only progress log.
func (p Project) ProgressLogPath() string {
	return filepath.Join(p.StatePath(), progressLogFileName)
}

// ConfigPath returns the path of the project config file.
func (p Project) ConfigPath() string {
	return filepath.Join(p.StatePath(), configFileName)
}

// LockPath returns the path of the advisory run lock.
func (p Project) LockPath() string {
	return filepath.Join(p.StatePath(), lockFileName)
}
