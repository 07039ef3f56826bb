package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jisaf/prodflow/internal/config"
	"github.com/jisaf/prodflow/internal/state"
	"github.com/jisaf/prodflow/pkg/models"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status [run-id]",
	Short: "Show recent pipeline runs",
	Long: `Display recent pipeline runs from the local run store. With a run id,
show that run's task snapshot and artifacts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "Number of runs to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	path := cfg.State.Path
	if path == "" {
		path = state.DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet. Run 'prodflow run' to start.")
		return nil
	}

	db, err := state.Open(path)
	if err != nil {
		return fmt.Errorf("opening run store: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating run store: %w", err)
	}

	if len(args) == 1 {
		return showRun(db, args[0])
	}
	return listRuns(db)
}

func listRuns(db *state.DB) error {
	runs, err := db.ListRuns(statusLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	bold := color.New(color.Bold)
	bold.Printf("%-10s %-22s %-10s %-20s %8s %6s\n", "RUN", "REPO", "STATUS", "STARTED", "HOURS", "DAYS")
	for _, r := range runs {
		status := string(r.Status)
		switch r.Status {
		case state.RunCompleted:
			status = color.GreenString(status)
		case state.RunFailed, state.RunInvalid:
			status = color.RedString(status)
		}
		fmt.Printf("%-10s %-22s %-10s %-20s %8.1f %6d\n",
			r.ID, r.Repo, status, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.TotalHours, r.EstimatedDays)
	}
	return nil
}

func showRun(db *state.DB, id string) error {
	run, err := db.GetRun(id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", id)
	}

	bold := color.New(color.Bold)
	bold.Printf("Run %s (%s)\n", run.ID, run.Status)
	fmt.Printf("  Repo:    %s\n", run.Repo)
	fmt.Printf("  Started: %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if len(run.SourceIssues) > 0 {
		refs := make([]string, len(run.SourceIssues))
		for i, n := range run.SourceIssues {
			refs[i] = fmt.Sprintf("#%d", n)
		}
		fmt.Printf("  Issues:  %s\n", strings.Join(refs, ", "))
	}

	tasks, err := db.ListTasks(id)
	if err != nil {
		return err
	}
	if len(tasks) > 0 {
		fmt.Println()
		bold.Println("  Tasks")
		for _, t := range tasks {
			status := string(t.Status)
			switch t.Status {
			case models.TaskStatusDone:
				status = color.GreenString(status)
			case models.TaskStatusFailed:
				status = color.RedString(status)
			case models.TaskStatusBlocked:
				status = color.YellowString(status)
			}
			fmt.Printf("    phase %d  %-10s [%s] %s\n", t.Phase, status, t.Category, t.Title)
		}
	}

	paths, err := db.ArtifactPaths(id)
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		fmt.Println()
		bold.Println("  Artifacts")
		for _, p := range paths {
			fmt.Printf("    %s\n", p)
		}
	}
	return nil
}
