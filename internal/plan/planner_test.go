package plan

import (
	"testing"

	"github.com/jisaf/prodflow/pkg/models"
)

func TestRunFullScenario(t *testing.T) {
	tasks := []*models.Task{
		{ID: "A", Title: "Task A", Category: models.CategoryBackend, EstimatedHours: 2, AcceptanceCriteria: []string{"ok"}},
		{ID: "B", Title: "Task B", Category: models.CategoryFrontend, EstimatedHours: 3, AcceptanceCriteria: []string{"ok"}, DependsOn: []string{"A"}},
		{ID: "C", Title: "Task C", Category: models.CategoryTesting, EstimatedHours: 1, AcceptanceCriteria: []string{"ok"}, DependsOn: []string{"A"}},
	}

	res := Run(tasks, models.PlanningConstraints{TeamSize: 1})
	if !res.Report.IsValid {
		t.Fatalf("expected valid report, got %v", res.Report.Issues)
	}

	if tasks[0].Phase != 1 || tasks[1].Phase != 2 || tasks[2].Phase != 2 {
		t.Errorf("expected phases 1,2,2, got %d,%d,%d", tasks[0].Phase, tasks[1].Phase, tasks[2].Phase)
	}

	if len(res.Plan.CriticalPath) != 2 || res.Plan.CriticalPath[0] != "A" || res.Plan.CriticalPath[1] != "B" {
		t.Errorf("expected critical path [A B], got %v", res.Plan.CriticalPath)
	}
	if res.Plan.CriticalPathHours != 5 {
		t.Errorf("expected critical path hours 5, got %v", res.Plan.CriticalPathHours)
	}

	// Phase 1 costs 2h, phase 2 costs max(3,1)=3h; 5h fits in one day.
	if res.Plan.TotalHours != 5 {
		t.Errorf("expected total 5, got %v", res.Plan.TotalHours)
	}
	if res.Plan.EstimatedDays != 1 {
		t.Errorf("expected 1 day, got %d", res.Plan.EstimatedDays)
	}
}

func TestRunInvalidSetSkipsPlan(t *testing.T) {
	tasks := []*models.Task{
		{ID: "X", Title: "Task X", DependsOn: []string{"Y"}},
		{ID: "Y", Title: "Task Y", DependsOn: []string{"X"}},
	}

	res := Run(tasks, models.PlanningConstraints{})
	if res.Report.IsValid {
		t.Error("cyclic set must be invalid")
	}
	if len(res.Plan.Phases) != 0 {
		t.Errorf("no plan should be built for an invalid set, got %+v", res.Plan)
	}
	if tasks[0].Phase != 0 || tasks[1].Phase != 0 {
		t.Error("tasks must not be phase-annotated when validation fails")
	}
}

func TestRunReportAlwaysReturned(t *testing.T) {
	tasks := []*models.Task{
		{ID: "Z", Title: "Task Z", DependsOn: []string{"ghost"}},
	}

	res := Run(tasks, models.PlanningConstraints{})
	if res.Report.IsValid {
		t.Error("dangling reference must invalidate the set")
	}
	if len(res.Report.Issues) == 0 {
		t.Error("report must carry the findings")
	}
}
