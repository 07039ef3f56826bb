package models

import "testing"

func TestTaskStatusValid(t *testing.T) {
	valid := []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusBlocked, TaskStatusDone, TaskStatusFailed}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if TaskStatus("bogus").Valid() {
		t.Error("expected bogus status to be invalid")
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Errorf("expected %s to be valid", c)
		}
	}
	if Category("marketing").Valid() {
		t.Error("expected unknown category to be invalid")
	}
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"design", CategoryDesign},
		{"Front-End", CategoryFrontend},
		{"BACKEND", CategoryBackend},
		{"infra", CategoryDevOps},
		{"qa", CategoryTesting},
		{"docs", CategoryDocumentation},
		{"integration", CategoryResearch},
		{"integration/research", CategoryResearch},
		{"  research ", CategoryResearch},
		{"something-else", CategoryBackend},
	}
	for _, c := range cases {
		if got := ParseCategory(c.in); got != c.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in   string
		want Priority
	}{
		{"critical", PriorityCritical},
		{"P1", PriorityHigh},
		{"normal", PriorityMedium},
		{"low", PriorityLow},
		{"", PriorityMedium},
		{"whatever", PriorityMedium},
	}
	for _, c := range cases {
		if got := ParsePriority(c.in); got != c.want {
			t.Errorf("ParsePriority(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPriorityWeightOrdering(t *testing.T) {
	if !(PriorityCritical.Weight() < PriorityHigh.Weight()) {
		t.Error("critical should sort before high")
	}
	if !(PriorityHigh.Weight() < PriorityMedium.Weight()) {
		t.Error("high should sort before medium")
	}
	if !(PriorityMedium.Weight() < PriorityLow.Weight()) {
		t.Error("medium should sort before low")
	}
}

func TestValidationReportFilters(t *testing.T) {
	r := ValidationReport{
		Issues: []ValidationIssue{
			{Severity: SeverityError, Message: "e1"},
			{Severity: SeverityWarning, Message: "w1"},
			{Severity: SeverityInfo, Message: "i1"},
			{Severity: SeverityError, Message: "e2"},
		},
	}
	if got := len(r.Errors()); got != 2 {
		t.Errorf("expected 2 errors, got %d", got)
	}
	if got := len(r.Warnings()); got != 1 {
		t.Errorf("expected 1 warning, got %d", got)
	}
}

func TestArtifactFilename(t *testing.T) {
	a := Artifact{TaskID: "abc123", Category: CategoryBackend}
	want := "artifacts/backend/abc123.md"
	if got := a.Filename(); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}
