package models

import "strings"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress indicates the task is being worked on.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusBlocked indicates the task cannot proceed because a
	// dependency failed.
	TaskStatusBlocked TaskStatus = "blocked"
	// TaskStatusDone indicates the task completed successfully.
	TaskStatusDone TaskStatus = "done"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusBlocked, TaskStatusDone, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Category classifies a task by the kind of artifact its agent produces.
type Category string

const (
	CategoryDesign        Category = "design"
	CategoryFrontend      Category = "frontend"
	CategoryBackend       Category = "backend"
	CategoryDevOps        Category = "devops"
	CategoryTesting       Category = "testing"
	CategoryDocumentation Category = "documentation"
	CategoryResearch      Category = "research"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryDesign,
		CategoryFrontend,
		CategoryBackend,
		CategoryDevOps,
		CategoryTesting,
		CategoryDocumentation,
		CategoryResearch,
	}
}

// Valid returns true if the category is a known value.
func (c Category) Valid() bool {
	switch c {
	case CategoryDesign, CategoryFrontend, CategoryBackend, CategoryDevOps,
		CategoryTesting, CategoryDocumentation, CategoryResearch:
		return true
	default:
		return false
	}
}

// ParseCategory normalizes a free-form category string.
// "integration" is accepted as an alias for research work.
// Unknown values fall back to backend, the broadest bucket.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "design", "ux", "ui":
		return CategoryDesign
	case "frontend", "front-end":
		return CategoryFrontend
	case "backend", "back-end":
		return CategoryBackend
	case "devops", "infrastructure", "infra":
		return CategoryDevOps
	case "testing", "test", "qa":
		return CategoryTesting
	case "documentation", "docs":
		return CategoryDocumentation
	case "research", "integration", "integration/research", "spike":
		return CategoryResearch
	default:
		return CategoryBackend
	}
}

// Priority orders tasks for tie-breaking and filtering.
// It never affects graph structure.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Weight returns a sortable weight; lower sorts first.
func (p Priority) Weight() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// ParsePriority normalizes a free-form priority string, defaulting to medium.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "urgent", "p0":
		return PriorityCritical
	case "high", "p1":
		return PriorityHigh
	case "medium", "normal", "p2":
		return PriorityMedium
	case "low", "p3":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Task represents a unit of schedulable work within a planning run.
type Task struct {
	// ID is the unique identifier for this task, stable for the run.
	ID string `json:"id" yaml:"id"`
	// Title is the short description of the task.
	Title string `json:"title" yaml:"title"`
	// Description provides detailed information about the task.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Category selects the generation agent for this task.
	Category Category `json:"category" yaml:"category"`
	// Priority orders tasks within a phase; it does not affect scheduling structure.
	Priority Priority `json:"priority" yaml:"priority"`
	// EstimatedHours is the non-negative duration estimate.
	EstimatedHours float64 `json:"estimated_hours" yaml:"estimated_hours"`
	// DependsOn lists task IDs that must complete before this task.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	// AcceptanceCriteria defines the conditions for task completion.
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty" yaml:"acceptance_criteria,omitempty"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status,omitempty" yaml:"status,omitempty"`

	// Phase is the execution wave assigned by the planner; 0 means unassigned.
	Phase int `json:"phase,omitempty" yaml:"phase,omitempty"`
	// CanStartInParallel is true when at least one other task shares this phase.
	CanStartInParallel bool `json:"can_start_in_parallel,omitempty" yaml:"can_start_in_parallel,omitempty"`
}

// PlanningConstraints carries the optional caller-declared constraints for a run.
type PlanningConstraints struct {
	// RequiredCapabilities lists capabilities the task set must cover.
	RequiredCapabilities []string `json:"required_capabilities,omitempty" yaml:"required_capabilities,omitempty"`
	// TechnicalConstraints lists free-text constraints checked for keyword conflicts.
	TechnicalConstraints []string `json:"technical_constraints,omitempty" yaml:"technical_constraints,omitempty"`
	// TeamSize scales the plan's estimated calendar duration. Zero means 1.
	TeamSize int `json:"team_size,omitempty" yaml:"team_size,omitempty"`
}
