package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jisaf/prodflow/internal/config"
	"github.com/jisaf/prodflow/pkg/models"
)

func writeTaskFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing task file: %v", err)
	}
	return path
}

func TestLoadTaskFileKeyedForm(t *testing.T) {
	path := writeTaskFile(t, `
constraints:
  team_size: 3
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
`)

	tasks, constraints, err := loadTaskFile(path)
	if err != nil {
		t.Fatalf("loadTaskFile: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if constraints.TeamSize != 3 {
		t.Errorf("team size = %d, want 3", constraints.TeamSize)
	}
	if tasks[1].DependsOn[0] != "schema" {
		t.Errorf("depends_on not parsed: %+v", tasks[1])
	}
	if tasks[0].Category != models.CategoryDesign {
		t.Errorf("category = %s, want design", tasks[0].Category)
	}
}

func TestLoadTaskFileBareList(t *testing.T) {
	path := writeTaskFile(t, `
- id: a
  title: Task A
  category: backend
  estimated_hours: 2
`)

	tasks, _, err := loadTaskFile(path)
	if err != nil {
		t.Fatalf("loadTaskFile: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Errorf("bare list not parsed: %+v", tasks)
	}
}

func TestLoadTaskFileEmpty(t *testing.T) {
	path := writeTaskFile(t, "")
	if _, _, err := loadTaskFile(path); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "github.owner", "acme"); err != nil {
		t.Fatalf("set owner: %v", err)
	}
	if cfg.GitHub.Owner != "acme" {
		t.Errorf("owner = %q", cfg.GitHub.Owner)
	}

	if err := setConfigValue(cfg, "github.labels", "feature,bug"); err != nil {
		t.Fatalf("set labels: %v", err)
	}
	if len(cfg.GitHub.Labels) != 2 {
		t.Errorf("labels = %v", cfg.GitHub.Labels)
	}

	if err := setConfigValue(cfg, "dispatch.task_timeout", "30m"); err != nil {
		t.Fatalf("set timeout: %v", err)
	}
	if cfg.Dispatch.TaskTimeout != 30*time.Minute {
		t.Errorf("timeout = %v", cfg.Dispatch.TaskTimeout)
	}

	if err := setConfigValue(cfg, "defaults.team_size", "nope"); err == nil {
		t.Error("expected error for non-numeric team size")
	}
	if err := setConfigValue(cfg, "bogus.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}
