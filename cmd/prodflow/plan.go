package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jisaf/prodflow/internal/plan"
	"github.com/jisaf/prodflow/pkg/models"
)

var (
	planTeamSize int
	planWatch    bool
)

var planCmd = &cobra.Command{
	Use:   "plan <tasks.yaml>",
	Short: "Validate a task file and print its execution plan",
	Long: `Load tasks from a YAML file, validate the dependency graph, assign
execution phases, and print the resulting plan with its critical path.

The file holds a task list, optionally with planning constraints:

  constraints:
    team_size: 3
    required_capabilities: [react, postgres]
  tasks:
    - id: schema
      title: Design payment schema
      category: design
      priority: high
      estimated_hours: 4
    - id: api
      title: Build payment API
      category: backend
      depends_on: [schema]
      estimated_hours: 8

With --watch, the plan is recomputed every time the file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().IntVar(&planTeamSize, "team-size", 0, "Team size for duration estimates (overrides the file)")
	planCmd.Flags().BoolVar(&planWatch, "watch", false, "Re-plan whenever the file changes")
}

func runPlan(cmd *cobra.Command, args []string) error {
	path := args[0]

	if err := planOnce(path); err != nil {
		return err
	}
	if !planWatch {
		return nil
	}
	return watchFile(path, func() {
		fmt.Println()
		color.Cyan("--- %s changed, re-planning ---", path)
		if err := planOnce(path); err != nil {
			color.Red("Error: %v", err)
		}
	})
}

// planOnce loads, validates, and prints one planning pass.
func planOnce(path string) error {
	tasks, constraints, err := loadTaskFile(path)
	if err != nil {
		return err
	}
	if planTeamSize > 0 {
		constraints.TeamSize = planTeamSize
	}

	res := plan.Run(tasks, constraints)
	printReport(res.Report)
	if !res.Report.IsValid {
		return fmt.Errorf("task set is invalid")
	}

	printPlan(res.Plan)
	return nil
}

// taskFile is the on-disk shape accepted by plan and validate.
type taskFile struct {
	Constraints models.PlanningConstraints `yaml:"constraints"`
	Tasks       []*models.Task             `yaml:"tasks"`
}

// loadTaskFile reads tasks from YAML. A bare top-level task list is accepted
// as well as the keyed form with constraints.
func loadTaskFile(path string) ([]*models.Task, models.PlanningConstraints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.PlanningConstraints{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var file taskFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Tasks) > 0 {
		return file.Tasks, file.Constraints, nil
	}

	var bare []*models.Task
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, models.PlanningConstraints{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(bare) == 0 {
		return nil, models.PlanningConstraints{}, fmt.Errorf("%s contains no tasks", path)
	}
	return bare, models.PlanningConstraints{}, nil
}

// printReport prints validation issues grouped by severity.
func printReport(report models.ValidationReport) {
	for _, cycle := range report.Cycles {
		color.Red("cycle: %s", strings.Join(cycle, " -> "))
	}
	for _, issue := range report.Issues {
		line := issue.Message
		if issue.TaskID != "" {
			line = fmt.Sprintf("[%s] %s", issue.TaskID, issue.Message)
		}
		if issue.Suggestion != "" {
			line += " (" + issue.Suggestion + ")"
		}
		switch issue.Severity {
		case models.SeverityError:
			color.Red("error: %s", line)
		case models.SeverityWarning:
			color.Yellow("warning: %s", line)
		default:
			color.Blue("info: %s", line)
		}
	}

	if report.IsValid {
		color.Green("Task set is valid (%d warnings)", len(report.Warnings()))
	}
}

// printPlan prints the phase schedule and critical path.
func printPlan(p models.ExecutionPlan) {
	bold := color.New(color.Bold)

	fmt.Println()
	bold.Println("Execution plan")
	for _, phase := range p.Phases {
		fmt.Printf("  Phase %d (%.1fh): %s\n", phase.Phase, phase.Hours, phase.Description)
		for _, id := range phase.TaskIDs {
			fmt.Printf("    - %s\n", id)
		}
	}

	fmt.Println()
	bold.Printf("Total: %.1f hours, ~%d day(s) with a team of %d\n",
		p.TotalHours, p.EstimatedDays, p.TeamSize)
	if len(p.CriticalPath) > 0 {
		color.Magenta("Critical path (%.1fh): %s", p.CriticalPathHours, strings.Join(p.CriticalPath, " -> "))
	}
}

// watchFile blocks, invoking onChange every time the file is written.
func watchFile(path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	color.Cyan("Watching %s for changes (ctrl+c to stop)...", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				onChange()
				// Editors replace files on save; re-add the path so
				// subsequent writes keep arriving.
				_ = watcher.Add(path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			color.Red("watch error: %v", err)
		}
	}
}
