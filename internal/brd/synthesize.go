// Package brd synthesizes a business-requirements document from GitHub issues.
package brd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jisaf/prodflow/internal/llm"
	"github.com/jisaf/prodflow/pkg/models"
)

// Synthesizer turns a batch of issues into a requirements document.
type Synthesizer struct {
	claude llm.Completer
}

// New creates a Synthesizer backed by the given completer.
func New(claude llm.Completer) *Synthesizer {
	return &Synthesizer{claude: claude}
}

// Synthesize generates a requirements document covering every issue.
// At least one issue is required; an empty batch has nothing to synthesize.
func (s *Synthesizer) Synthesize(ctx context.Context, issues []models.Issue) (*models.RequirementsDoc, error) {
	if len(issues) == 0 {
		return nil, fmt.Errorf("no issues to synthesize")
	}

	prompt := fmt.Sprintf(synthesisPrompt, formatIssues(issues))

	response, err := s.claude.Complete(ctx, synthesisSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("synthesize requirements: %w", err)
	}

	doc, err := ParseDocument(response)
	if err != nil {
		return nil, fmt.Errorf("parse requirements document: %w", err)
	}

	for _, issue := range issues {
		doc.SourceIssues = append(doc.SourceIssues, issue.Number)
	}
	return doc, nil
}

// formatIssues renders the issue batch into the digest block the prompt embeds.
func formatIssues(issues []models.Issue) string {
	var b strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&b, "### Issue #%d: %s\n", issue.Number, issue.Title)
		if len(issue.Labels) > 0 {
			fmt.Fprintf(&b, "Labels: %s\n", strings.Join(issue.Labels, ", "))
		}
		body := strings.TrimSpace(issue.Body)
		if body == "" {
			body = "(no description)"
		}
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	return b.String()
}
