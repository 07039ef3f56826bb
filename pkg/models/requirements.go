package models

import "time"

// Issue is the slice of a GitHub issue the pipeline cares about.
type Issue struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Body   string   `json:"body,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

// Section is one titled block of a requirements document.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// RequirementsDoc is the synthesized business-requirements document.
type RequirementsDoc struct {
	// Title is the document title taken from the top-level heading.
	Title string `json:"title"`
	// Overview is the text preceding the first section heading.
	Overview string `json:"overview,omitempty"`
	// Sections are the parsed "## " blocks in document order.
	Sections []Section `json:"sections"`
	// SourceIssues are the issue numbers the document was synthesized from.
	SourceIssues []int `json:"source_issues,omitempty"`
	// Raw is the full generated markdown.
	Raw string `json:"-"`
}

// Artifact is a generated deliverable for one task.
type Artifact struct {
	// TaskID links the artifact back to its task.
	TaskID string `json:"task_id"`
	// Title is the task title the artifact was generated for.
	Title string `json:"title"`
	// Category is the agent category that produced the artifact.
	Category Category `json:"category"`
	// Body is the generated markdown.
	Body string `json:"body"`
	// Model is the LLM model that produced the body.
	Model string `json:"model,omitempty"`
	// GeneratedAt is when generation finished.
	GeneratedAt time.Time `json:"generated_at"`
}

// Filename returns a repository-safe path for committing the artifact.
func (a Artifact) Filename() string {
	return "artifacts/" + string(a.Category) + "/" + a.TaskID + ".md"
}
