package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/config"
	"github.com/backloop-dev/backloop/internal/progress"
	"github.com/backloop-dev/backloop/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create the .backloop state directory for a project",
	Long:  `Init detects the project's tech stack and scaffolds .backloop/ with an empty feature list, a default config, and a progress log. Add tasks to feature_list.json afterwards.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if info, err := os.Stat(absDir); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absDir)
	}

	proj := project.Project{Dir: absDir}
	if _, err := os.Stat(proj.FeatureListPath()); err == nil {
		return fmt.Errorf("%s already initialized (%s exists)", proj.Name(), proj.FeatureListPath())
	}

	if err := os.MkdirAll(proj.StatePath(), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	info := project.Detect(absDir)
	now := time.Now()

	list := &backlog.TaskList{
		ProjectSpec: describeProject(proj.Name(), info),
		CreatedAt:   now.Format(time.RFC3339),
		Features:    []backlog.Task{},
	}
	if err := backlog.Save(proj.FeatureListPath(), list); err != nil {
		return err
	}

	if err := os.WriteFile(proj.ConfigPath(), []byte(config.DefaultYAML), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := progress.NewLogger(proj.ProgressLogPath()).WriteHeader(proj.Name(), now); err != nil {
		return err
	}

	fmt.Printf("Initialized %s (%s)\n", proj.Name(), info.Language)
	fmt.Printf("  %s/\n", project.StateDir)
	fmt.Println("  ├── feature_list.json")
	fmt.Println("  ├── config.yaml")
	fmt.Println("  └── progress.log")
	fmt.Println("\nAdd tasks to feature_list.json, then run `backloop run`.")
	if info.BuildCmd != "" {
		out, _ := json.Marshal(map[string]string{"build": info.BuildCmd, "test": info.TestCmd})
		fmt.Printf("\nDetected commands: %s\n", out)
	}
	return nil
}

func describeProject(name string, info project.Info) string {
	if info.Language == "unknown" {
		return name
	}
	return fmt.Sprintf("%s - %s project", name, info.Language)
}
