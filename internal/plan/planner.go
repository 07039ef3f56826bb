package plan

import (
	"github.com/jisaf/prodflow/pkg/models"
)

// Result bundles everything a planning pass produces for one task set.
type Result struct {
	// Report always carries the validation outcome, valid or not.
	Report models.ValidationReport
	// Tasks is the input slice, phase-annotated when the set validated.
	Tasks []*models.Task
	// Plan is populated only when the report is valid.
	Plan models.ExecutionPlan
}

// Run validates the task set and, when it is structurally sound, annotates
// phases and builds the execution plan with its critical path.
//
// Malformed input never produces a Go error: the report records what is wrong
// and the caller decides whether an invalid set halts the wider pipeline.
func Run(tasks []*models.Task, constraints models.PlanningConstraints) Result {
	res := Result{
		Report: Validate(tasks, constraints),
		Tasks:  tasks,
	}
	if !res.Report.IsValid {
		return res
	}

	// Validation found no cycles, so this cannot fail; the check inside
	// AssignPhases stays as the package's own guarantee.
	if err := AssignPhases(tasks); err != nil {
		return res
	}

	res.Plan = BuildExecutionPlan(tasks, constraints.TeamSize)
	res.Plan.CriticalPath, res.Plan.CriticalPathHours = CriticalPath(tasks)
	return res
}
