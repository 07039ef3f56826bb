package brd

import (
	"context"
	"strings"
	"testing"

	"github.com/jisaf/prodflow/pkg/models"
)

// stubCompleter returns a canned response and records the last prompt.
type stubCompleter struct {
	response string
	err      error
	prompt   string
}

func (s *stubCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

const sampleDoc = `# Checkout Revamp

This initiative modernizes the checkout flow.

## Goals
Reduce cart abandonment.

## Functional Requirements
1. Support guest checkout (#12)
2. Persist carts across sessions (#14)

## Out of Scope
Loyalty program changes.
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(sampleDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Checkout Revamp" {
		t.Errorf("title = %q", doc.Title)
	}
	if !strings.Contains(doc.Overview, "modernizes the checkout flow") {
		t.Errorf("overview = %q", doc.Overview)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Heading != "Goals" {
		t.Errorf("first section = %q", doc.Sections[0].Heading)
	}

	body, ok := Section(doc, "functional requirements")
	if !ok {
		t.Fatal("expected case-insensitive section lookup to succeed")
	}
	if !strings.Contains(body, "guest checkout") {
		t.Errorf("section body = %q", body)
	}
}

func TestParseDocumentNoHeadings(t *testing.T) {
	if _, err := ParseDocument("just some prose with no structure"); err == nil {
		t.Error("expected error for response without headings")
	}
}

func TestSynthesizeEmbedsIssues(t *testing.T) {
	stub := &stubCompleter{response: sampleDoc}
	s := New(stub)

	issues := []models.Issue{
		{Number: 12, Title: "Guest checkout", Body: "Allow purchase without an account", Labels: []string{"feature"}},
		{Number: 14, Title: "Cart persistence"},
	}

	doc, err := s.Synthesize(context.Background(), issues)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.prompt, "Issue #12: Guest checkout") {
		t.Errorf("prompt missing issue 12: %q", stub.prompt)
	}
	if !strings.Contains(stub.prompt, "(no description)") {
		t.Errorf("empty body should render a placeholder: %q", stub.prompt)
	}

	if len(doc.SourceIssues) != 2 || doc.SourceIssues[0] != 12 || doc.SourceIssues[1] != 14 {
		t.Errorf("source issues = %v", doc.SourceIssues)
	}
}

func TestSynthesizeNoIssues(t *testing.T) {
	s := New(&stubCompleter{response: sampleDoc})
	if _, err := s.Synthesize(context.Background(), nil); err == nil {
		t.Error("expected error for empty issue batch")
	}
}
