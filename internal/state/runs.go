package state

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jisaf/prodflow/pkg/models"
)

// RunStatus represents the status of a pipeline run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunInvalid   RunStatus = "invalid"
)

// Run represents one pipeline run against a repository.
type Run struct {
	ID            string     `json:"id"`
	Repo          string     `json:"repo"`
	SourceIssues  []int      `json:"source_issues"`
	Status        RunStatus  `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	TotalHours    float64    `json:"total_hours"`
	EstimatedDays int        `json:"estimated_days"`
}

// CreateRun records the start of a run.
func (db *DB) CreateRun(r *Run) error {
	_, err := db.Exec(`
		INSERT INTO runs (id, repo, source_issues, status, started_at, total_hours, estimated_days)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Repo, joinInts(r.SourceIssues), string(r.Status), formatTime(r.StartedAt), r.TotalHours, r.EstimatedDays)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// FinishRun marks a run finished with the given status and plan totals.
func (db *DB) FinishRun(id string, status RunStatus, totalHours float64, estimatedDays int) error {
	_, err := db.Exec(`
		UPDATE runs SET status = ?, finished_at = ?, total_hours = ?, estimated_days = ?
		WHERE id = ?
	`, string(status), formatTime(time.Now()), totalHours, estimatedDays, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns nil when the run does not exist.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`
		SELECT id, repo, source_issues, status, started_at, finished_at, total_hours, estimated_days
		FROM runs WHERE id = ?
	`, id)

	r, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListRuns lists the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(`
		SELECT id, repo, source_issues, status, started_at, finished_at, total_hours, estimated_days
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// SaveTasks snapshots the tasks of a run, including phase annotations.
func (db *DB) SaveTasks(runID string, tasks []*models.Task) error {
	for _, t := range tasks {
		_, err := db.Exec(`
			INSERT INTO run_tasks (run_id, task_id, title, category, priority, estimated_hours, depends_on, status, phase)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, task_id) DO UPDATE SET status = excluded.status, phase = excluded.phase
		`, runID, t.ID, t.Title, string(t.Category), string(t.Priority), t.EstimatedHours,
			strings.Join(t.DependsOn, ","), string(t.Status), t.Phase)
		if err != nil {
			return fmt.Errorf("save task %s: %w", t.ID, err)
		}
	}
	return nil
}

// ListTasks returns the task snapshot of a run.
func (db *DB) ListTasks(runID string) ([]*models.Task, error) {
	rows, err := db.Query(`
		SELECT task_id, title, category, priority, estimated_hours, depends_on, status, phase
		FROM run_tasks WHERE run_id = ? ORDER BY phase, task_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var t models.Task
		var category, priority, status, dependsOn string
		if err := rows.Scan(&t.ID, &t.Title, &category, &priority, &t.EstimatedHours, &dependsOn, &status, &t.Phase); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Category = models.Category(category)
		t.Priority = models.Priority(priority)
		t.Status = models.TaskStatus(status)
		if dependsOn != "" {
			t.DependsOn = strings.Split(dependsOn, ",")
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

// SaveArtifact records a generated artifact for a run task.
func (db *DB) SaveArtifact(runID string, a *models.Artifact) error {
	_, err := db.Exec(`
		INSERT INTO artifacts (run_id, task_id, path, model, generated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, task_id) DO UPDATE SET path = excluded.path, generated_at = excluded.generated_at
	`, runID, a.TaskID, a.Filename(), a.Model, formatTime(a.GeneratedAt))
	if err != nil {
		return fmt.Errorf("save artifact for %s: %w", a.TaskID, err)
	}
	return nil
}

// ArtifactPaths returns the stored artifact paths of a run, keyed by task id.
func (db *DB) ArtifactPaths(runID string) (map[string]string, error) {
	rows, err := db.Query("SELECT task_id, path FROM artifacts WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]string)
	for rows.Next() {
		var taskID, path string
		if err := rows.Scan(&taskID, &path); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		paths[taskID] = path
	}
	return paths, rows.Err()
}

type scanFunc func(dest ...any) error

func scanRun(scan scanFunc) (*Run, error) {
	var r Run
	var issues, startedAt string
	var finishedAt sql.NullString
	err := scan(&r.ID, &r.Repo, &issues, &r.Status, &startedAt, &finishedAt, &r.TotalHours, &r.EstimatedDays)
	if err != nil {
		return nil, err
	}
	r.SourceIssues = splitInts(issues)
	r.StartedAt, _ = parseTime(startedAt)
	if finishedAt.Valid {
		if t, err := parseTime(finishedAt.String); err == nil {
			r.FinishedAt = &t
		}
	}
	return &r, nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) []int {
	if s == "" {
		return nil
	}
	var ns []int
	for _, part := range strings.Split(s, ",") {
		var n int
		if _, err := fmt.Sscanf(part, "%d", &n); err == nil {
			ns = append(ns, n)
		}
	}
	return ns
}
