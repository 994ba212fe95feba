package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/project"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report backlog progress and the next eligible task",
	Long:  `Status reads the project's feature list and reports counts and the next eligible task. It never mutates any file.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if projectFlag == "" {
		return listProjects()
	}

	loop, _, _, err := loadLoop()
	if err != nil {
		return err
	}

	summary, next, err := loop.Status()
	if err != nil {
		return err
	}

	out := struct {
		Project       string        `json:"project"`
		Outcome       string        `json:"outcome"`
		TotalFeatures int           `json:"total_features"`
		Completed     int           `json:"completed"`
		Pending       int           `json:"pending"`
		NextTask      *backlog.Task `json:"next_task,omitempty"`
		Reason        string        `json:"reason,omitempty"`
	}{
		Project:       summary.Project,
		Outcome:       summary.Outcome,
		TotalFeatures: summary.TotalFeatures,
		Completed:     summary.Completed,
		Pending:       summary.Pending,
		NextTask:      next,
		Reason:        summary.Reason,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// listProjects prints every discovered project with its progress.
func listProjects() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	projects, err := project.Scan(wd)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects found. Run `backloop init <dir>` to create one.")
		return nil
	}

	fmt.Printf("Found %d project(s):\n\n", len(projects))
	for _, proj := range projects {
		list, err := backlog.Load(proj.FeatureListPath())
		if err != nil {
			fmt.Printf("  %s  (unreadable: %v)\n", proj.Name(), err)
			continue
		}
		fmt.Printf("  %s  %d/%d complete", proj.Name(), list.Completed, list.TotalFeatures)
		if next := backlog.SelectNext(list); next != nil {
			fmt.Printf("  next: %s %s", next.ID, next.Description)
		}
		fmt.Println()
	}
	return nil
}
