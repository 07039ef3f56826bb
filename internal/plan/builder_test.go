package plan

import (
	"strings"
	"testing"

	"github.com/jisaf/prodflow/pkg/models"
)

func TestBuildExecutionPlanPhaseHoursAreMax(t *testing.T) {
	tasks := []*models.Task{
		{ID: "A", Title: "Task A", Category: models.CategoryBackend, EstimatedHours: 2, Phase: 1},
		{ID: "B", Title: "Task B", Category: models.CategoryFrontend, EstimatedHours: 3, Phase: 2},
		{ID: "C", Title: "Task C", Category: models.CategoryBackend, EstimatedHours: 1, Phase: 2},
	}

	ep := BuildExecutionPlan(tasks, 1)
	if len(ep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(ep.Phases))
	}
	if ep.Phases[0].Hours != 2 {
		t.Errorf("phase 1 hours should be 2, got %v", ep.Phases[0].Hours)
	}
	// Phase 2 runs B and C in parallel, bounded by the slowest task.
	if ep.Phases[1].Hours != 3 {
		t.Errorf("phase 2 hours should be max(3,1)=3, got %v", ep.Phases[1].Hours)
	}
	if ep.TotalHours != 5 {
		t.Errorf("expected total 5, got %v", ep.TotalHours)
	}
}

func TestBuildExecutionPlanEstimatedDays(t *testing.T) {
	tasks := []*models.Task{
		{ID: "A", Title: "Task A", EstimatedHours: 9, Phase: 1},
	}

	// 9 hours / (1 * 8) rounds up to 2 days.
	ep := BuildExecutionPlan(tasks, 1)
	if ep.EstimatedDays != 2 {
		t.Errorf("expected 2 days for team of 1, got %d", ep.EstimatedDays)
	}

	// 9 hours / (2 * 8) rounds up to 1 day.
	ep = BuildExecutionPlan(tasks, 2)
	if ep.EstimatedDays != 1 {
		t.Errorf("expected 1 day for team of 2, got %d", ep.EstimatedDays)
	}
}

func TestBuildExecutionPlanTeamSizeDefaultsToOne(t *testing.T) {
	tasks := []*models.Task{
		{ID: "A", Title: "Task A", EstimatedHours: 8, Phase: 1},
	}

	ep := BuildExecutionPlan(tasks, 0)
	if ep.TeamSize != 1 {
		t.Errorf("expected team size default 1, got %d", ep.TeamSize)
	}
	if ep.EstimatedDays != 1 {
		t.Errorf("expected 1 day, got %d", ep.EstimatedDays)
	}
}

func TestBuildExecutionPlanDescriptionListsCategories(t *testing.T) {
	tasks := []*models.Task{
		{ID: "A", Title: "Task A", Category: models.CategoryBackend, Phase: 1},
		{ID: "B", Title: "Task B", Category: models.CategoryDesign, Phase: 1},
		{ID: "C", Title: "Task C", Category: models.CategoryBackend, Phase: 1},
	}

	ep := BuildExecutionPlan(tasks, 1)
	desc := ep.Phases[0].Description
	if !strings.Contains(desc, "design") || !strings.Contains(desc, "backend") {
		t.Errorf("description should list both categories, got %q", desc)
	}
	if strings.Count(desc, "backend") != 1 {
		t.Errorf("categories should be distinct in %q", desc)
	}
}

func TestBuildExecutionPlanPrioritySortsListing(t *testing.T) {
	tasks := []*models.Task{
		{ID: "low", Title: "Low", Priority: models.PriorityLow, Phase: 1},
		{ID: "crit", Title: "Critical", Priority: models.PriorityCritical, Phase: 1},
		{ID: "med", Title: "Medium", Priority: models.PriorityMedium, Phase: 1},
	}

	ep := BuildExecutionPlan(tasks, 1)
	ids := ep.Phases[0].TaskIDs
	if len(ids) != 3 || ids[0] != "crit" || ids[1] != "med" || ids[2] != "low" {
		t.Errorf("expected priority order [crit med low], got %v", ids)
	}
}

func TestBuildExecutionPlanMinimumOneDay(t *testing.T) {
	tasks := []*models.Task{
		{ID: "A", Title: "Task A", EstimatedHours: 0, Phase: 1},
	}

	ep := BuildExecutionPlan(tasks, 1)
	if ep.EstimatedDays != 1 {
		t.Errorf("non-empty plan should cost at least one day, got %d", ep.EstimatedDays)
	}
}

func TestBuildExecutionPlanEmpty(t *testing.T) {
	ep := BuildExecutionPlan(nil, 3)
	if len(ep.Phases) != 0 || ep.TotalHours != 0 || ep.EstimatedDays != 0 {
		t.Errorf("expected empty plan, got %+v", ep)
	}
}
