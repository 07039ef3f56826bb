package models

// Severity classifies a validation issue.
type Severity string

const (
	// SeverityError blocks validity of the task set.
	SeverityError Severity = "error"
	// SeverityWarning is surfaced but does not block validity.
	SeverityWarning Severity = "warning"
	// SeverityInfo is advisory context.
	SeverityInfo Severity = "info"
)

// ValidationIssue is a single finding from task-set validation.
type ValidationIssue struct {
	// Severity is error, warning, or info.
	Severity Severity `json:"severity"`
	// TaskID is the offending task, if the issue is task-scoped.
	TaskID string `json:"task_id,omitempty"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// Suggestion is an optional remediation hint.
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationReport aggregates every finding for a task set.
// IsValid is false only when at least one error-severity issue exists;
// warnings and info never flip it.
type ValidationReport struct {
	IsValid bool              `json:"is_valid"`
	Issues  []ValidationIssue `json:"issues"`
	// Cycles holds each detected dependency cycle as an ordered id sequence
	// whose first and last elements are equal.
	Cycles [][]string `json:"cycles,omitempty"`
}

// Errors returns only the error-severity issues.
func (r ValidationReport) Errors() []ValidationIssue {
	return r.filter(SeverityError)
}

// Warnings returns only the warning-severity issues.
func (r ValidationReport) Warnings() []ValidationIssue {
	return r.filter(SeverityWarning)
}

func (r ValidationReport) filter(sev Severity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// PlanPhase is one execution wave of the plan.
type PlanPhase struct {
	// Phase is the 1-based wave number.
	Phase int `json:"phase"`
	// TaskIDs lists the tasks in this wave, priority-sorted.
	TaskIDs []string `json:"task_ids"`
	// Hours is the wall-clock cost of the wave: the maximum single-task
	// estimate, since tasks within a phase run in parallel.
	Hours float64 `json:"hours"`
	// Description lists the distinct categories present in the wave.
	Description string `json:"description"`
}

// ExecutionPlan is the phase-grouped schedule for a validated task set.
type ExecutionPlan struct {
	Phases []PlanPhase `json:"phases"`
	// TotalHours is the sum of per-phase wall-clock hours.
	TotalHours float64 `json:"total_hours"`
	// EstimatedDays divides TotalHours by (teamSize * 8), rounded up.
	EstimatedDays int `json:"estimated_days"`
	// TeamSize is the team size the estimate was computed with.
	TeamSize int `json:"team_size"`
	// CriticalPath is the longest dependency-weighted chain of task ids.
	CriticalPath []string `json:"critical_path,omitempty"`
	// CriticalPathHours is the cumulative estimate along CriticalPath.
	CriticalPathHours float64 `json:"critical_path_hours"`
}
