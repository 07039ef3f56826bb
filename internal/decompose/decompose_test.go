package decompose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jisaf/prodflow/internal/plan"
	"github.com/jisaf/prodflow/pkg/models"
)

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return s.response, s.err
}

const validResponse = `Here is the decomposition:
[
  {
    "title": "Design schema",
    "description": "Model the data",
    "category": "design",
    "priority": "high",
    "estimated_hours": 3,
    "depends_on": [],
    "acceptance_criteria": ["ERD reviewed"]
  },
  {
    "title": "Build API",
    "description": "Implement endpoints",
    "category": "backend",
    "priority": "critical",
    "estimated_hours": 6,
    "depends_on": ["Design schema"],
    "acceptance_criteria": ["endpoints return 200"]
  }
]`

func TestParseResponse(t *testing.T) {
	tasks, err := ParseResponse(validResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	if tasks[0].Category != models.CategoryDesign {
		t.Errorf("category = %s", tasks[0].Category)
	}
	if tasks[1].Priority != models.PriorityCritical {
		t.Errorf("priority = %s", tasks[1].Priority)
	}
	if tasks[0].ID == tasks[1].ID {
		t.Error("task ids must be unique")
	}
	if len(tasks[1].DependsOn) != 1 || tasks[1].DependsOn[0] != tasks[0].ID {
		t.Errorf("dependency not resolved to id: %v", tasks[1].DependsOn)
	}
	if tasks[0].Status != models.TaskStatusPending {
		t.Errorf("status = %s", tasks[0].Status)
	}
}

func TestParseResponseNoJSON(t *testing.T) {
	if _, err := ParseResponse("sorry, I cannot help with that"); err == nil {
		t.Error("expected error for response without a JSON array")
	}
}

func TestParseResponseUnknownDependency(t *testing.T) {
	response := `[
  {"title": "A", "category": "backend", "depends_on": ["Nonexistent"], "acceptance_criteria": ["ok"]}
]`
	_, err := ParseResponse(response)
	if err == nil || !strings.Contains(err.Error(), "Nonexistent") {
		t.Errorf("expected unknown-dependency error, got %v", err)
	}
}

func TestParseResponseEmptyList(t *testing.T) {
	if _, err := ParseResponse("[]"); err == nil {
		t.Error("expected error for empty task list")
	}
}

func TestParseResponseClampsNegativeHours(t *testing.T) {
	response := `[
  {"title": "A", "category": "backend", "estimated_hours": -2, "acceptance_criteria": ["ok"]}
]`
	tasks, err := ParseResponse(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tasks[0].EstimatedHours != 0 {
		t.Errorf("expected clamped estimate 0, got %v", tasks[0].EstimatedHours)
	}
}

func TestParseResponseNormalizesIntegrationAlias(t *testing.T) {
	response := `[
  {"title": "A", "category": "integration", "acceptance_criteria": ["ok"]}
]`
	tasks, err := ParseResponse(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tasks[0].Category != models.CategoryResearch {
		t.Errorf("expected research, got %s", tasks[0].Category)
	}
}

func TestDecomposeRejectsCycles(t *testing.T) {
	response := `[
  {"title": "A", "category": "backend", "depends_on": ["B"], "acceptance_criteria": ["ok"]},
  {"title": "B", "category": "backend", "depends_on": ["A"], "acceptance_criteria": ["ok"]}
]`
	d := New(&stubCompleter{response: response})

	_, err := d.Decompose(context.Background(), &models.RequirementsDoc{Raw: "doc"})
	if !errors.Is(err, plan.ErrCycle) {
		t.Errorf("expected plan.ErrCycle, got %v", err)
	}
}

func TestDecomposeHappyPath(t *testing.T) {
	d := New(&stubCompleter{response: validResponse})

	tasks, err := d.Decompose(context.Background(), &models.RequirementsDoc{Raw: "doc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(tasks))
	}
}
