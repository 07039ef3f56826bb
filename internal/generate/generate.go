// Package generate runs category-specific agents that produce one markdown
// artifact per task.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jisaf/prodflow/internal/llm"
	"github.com/jisaf/prodflow/pkg/models"
)

// Generator produces artifacts for tasks using a per-category system prompt.
type Generator struct {
	claude llm.Completer
	model  string
}

// New creates a Generator backed by the given completer.
// The model string is recorded on artifacts for traceability only.
func New(claude llm.Completer, model string) *Generator {
	return &Generator{claude: claude, model: model}
}

// Generate produces the artifact for a single task.
func (g *Generator) Generate(ctx context.Context, task *models.Task) (*models.Artifact, error) {
	system, ok := categorySystems[task.Category]
	if !ok {
		system = categorySystems[models.CategoryBackend]
	}

	prompt := buildTaskPrompt(task)

	body, err := g.claude.Complete(ctx, system, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate %s artifact for task %s: %w", task.Category, task.ID, err)
	}

	return &models.Artifact{
		TaskID:      task.ID,
		Title:       task.Title,
		Category:    task.Category,
		Body:        body,
		Model:       g.model,
		GeneratedAt: time.Now(),
	}, nil
}

// buildTaskPrompt renders the task into the user prompt for its agent.
func buildTaskPrompt(task *models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", task.Description)
	}
	if len(task.AcceptanceCriteria) > 0 {
		b.WriteString("Acceptance criteria:\n")
		for _, ac := range task.AcceptanceCriteria {
			fmt.Fprintf(&b, "- %s\n", ac)
		}
		b.WriteString("\n")
	}
	b.WriteString("Produce the complete deliverable as a single markdown document.")
	return b.String()
}
