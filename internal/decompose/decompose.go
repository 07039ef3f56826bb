// Package decompose turns a requirements document into categorized tasks.
package decompose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jisaf/prodflow/internal/llm"
	"github.com/jisaf/prodflow/internal/plan"
	"github.com/jisaf/prodflow/pkg/models"
)

// decomposedTask is the JSON structure returned by Claude for a single task.
type decomposedTask struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Priority           string   `json:"priority"`
	EstimatedHours     float64  `json:"estimated_hours"`
	DependsOn          []string `json:"depends_on"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

// Decomposer breaks a requirements document into schedulable tasks.
type Decomposer struct {
	claude llm.Completer
}

// New creates a Decomposer backed by the given completer.
func New(claude llm.Completer) *Decomposer {
	return &Decomposer{claude: claude}
}

// Decompose generates the task set for a requirements document.
// The scheduler merely reports cycles; the decomposer is a caller that treats
// any cycle in freshly generated tasks as fatal, since downstream phase
// assignment would be meaningless.
func (d *Decomposer) Decompose(ctx context.Context, doc *models.RequirementsDoc) ([]*models.Task, error) {
	prompt := fmt.Sprintf(decompositionPrompt, doc.Raw)

	response, err := d.claude.Complete(ctx, decompositionSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("decompose requirements: %w", err)
	}

	tasks, err := ParseResponse(response)
	if err != nil {
		return nil, fmt.Errorf("parse decomposition response: %w", err)
	}

	if cycles := plan.FindCycles(tasks); len(cycles) > 0 {
		return nil, fmt.Errorf("%w: %s", plan.ErrCycle, strings.Join(cycles[0], " -> "))
	}

	return tasks, nil
}

// ParseResponse parses Claude's JSON response into Task values.
// The model references dependencies by title; ids are assigned here and the
// titles resolved against them.
func ParseResponse(response string) ([]*models.Task, error) {
	jsonStart := strings.Index(response, "[")
	jsonEnd := strings.LastIndex(response, "]")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		preview := response
		if len(preview) > 500 {
			preview = preview[:500] + "... (truncated)"
		}
		return nil, fmt.Errorf("no JSON array found in response (got %d chars): %q", len(response), preview)
	}

	var decomposed []decomposedTask
	if err := json.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), &decomposed); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if len(decomposed) == 0 {
		return nil, fmt.Errorf("empty task list returned")
	}

	titleToID := make(map[string]string, len(decomposed))
	tasks := make([]*models.Task, len(decomposed))

	for i, dt := range decomposed {
		if strings.TrimSpace(dt.Title) == "" {
			return nil, fmt.Errorf("task %d has no title", i)
		}
		id := uuid.New().String()
		titleToID[dt.Title] = id

		hours := dt.EstimatedHours
		if hours < 0 {
			hours = 0
		}

		tasks[i] = &models.Task{
			ID:                 id,
			Title:              dt.Title,
			Description:        dt.Description,
			Category:           models.ParseCategory(dt.Category),
			Priority:           models.ParsePriority(dt.Priority),
			EstimatedHours:     hours,
			AcceptanceCriteria: dt.AcceptanceCriteria,
			Status:             models.TaskStatusPending,
		}
	}

	for i, dt := range decomposed {
		for _, depTitle := range dt.DependsOn {
			depID, ok := titleToID[depTitle]
			if !ok {
				return nil, fmt.Errorf("unknown dependency %q for task %q", depTitle, dt.Title)
			}
			if depID == tasks[i].ID {
				return nil, fmt.Errorf("task %q depends on itself", dt.Title)
			}
			tasks[i].DependsOn = append(tasks[i].DependsOn, depID)
		}
	}

	return tasks, nil
}
