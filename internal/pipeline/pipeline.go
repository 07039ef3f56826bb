// Package pipeline wires the delivery stages together: scan issues,
// synthesize requirements, decompose into tasks, validate and schedule the
// dependency graph, dispatch generation work, and publish the results.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jisaf/prodflow/internal/dispatch"
	"github.com/jisaf/prodflow/internal/plan"
	"github.com/jisaf/prodflow/internal/state"
	"github.com/jisaf/prodflow/pkg/models"
)

// IssueSource scans a repository for requirement input.
type IssueSource interface {
	ScanIssues(ctx context.Context, labels []string) ([]models.Issue, error)
}

// Publisher pushes generated artifacts back to the repository.
type Publisher interface {
	PublishArtifacts(ctx context.Context, branch string, files map[string]string, message string) error
	PublishComment(ctx context.Context, issue int, body string) error
}

// Synthesizer turns scanned issues into a requirements document.
type Synthesizer interface {
	Synthesize(ctx context.Context, issues []models.Issue) (*models.RequirementsDoc, error)
}

// Decomposer breaks a requirements document into tasks.
type Decomposer interface {
	Decompose(ctx context.Context, doc *models.RequirementsDoc) ([]*models.Task, error)
}

// Generator produces the artifact for one task.
type Generator interface {
	Generate(ctx context.Context, task *models.Task) (*models.Artifact, error)
}

// RunStore persists run history. *state.DB satisfies it.
type RunStore interface {
	CreateRun(r *state.Run) error
	FinishRun(id string, status state.RunStatus, totalHours float64, estimatedDays int) error
	SaveTasks(runID string, tasks []*models.Task) error
	SaveArtifact(runID string, a *models.Artifact) error
}

// Config contains everything a Pipeline needs. Source, Synthesizer,
// Decomposer, and Generator are required; Publisher and Store are optional.
type Config struct {
	Source      IssueSource
	Synthesizer Synthesizer
	Decomposer  Decomposer
	Generator   Generator
	Publisher   Publisher
	Store       RunStore

	Repo        string
	Labels      []string
	Branch      string
	Constraints models.PlanningConstraints

	Dispatch dispatch.Config
	// OnEvent, when set, receives every dispatcher event in order.
	OnEvent func(dispatch.Event)
	// DryRun stops after planning; nothing is dispatched or published.
	DryRun bool
}

// Result is the full outcome of a pipeline run.
type Result struct {
	RunID     string
	Doc       *models.RequirementsDoc
	Tasks     []*models.Task
	Report    models.ValidationReport
	Plan      *models.ExecutionPlan
	Summary   dispatch.Summary
	Artifacts []*models.Artifact
}

// Pipeline executes the delivery stages in order.
type Pipeline struct {
	cfg Config

	mu        sync.Mutex
	artifacts []*models.Artifact
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("pipeline requires an issue source")
	}
	if cfg.Synthesizer == nil || cfg.Decomposer == nil || cfg.Generator == nil {
		return nil, fmt.Errorf("pipeline requires synthesizer, decomposer, and generator")
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	return &Pipeline{cfg: cfg}, nil
}

// Run executes the pipeline end to end. A validation failure is not an
// error: the Result carries the report and Run returns with a nil Plan.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.New().String()[:8]}

	issues, err := p.cfg.Source.ScanIssues(ctx, p.cfg.Labels)
	if err != nil {
		return nil, fmt.Errorf("scanning issues: %w", err)
	}
	if len(issues) == 0 {
		return nil, fmt.Errorf("no open issues matched labels %v", p.cfg.Labels)
	}

	p.recordStart(res, issues)

	doc, err := p.cfg.Synthesizer.Synthesize(ctx, issues)
	if err != nil {
		p.recordFinish(res, state.RunFailed, nil)
		return nil, fmt.Errorf("synthesizing requirements: %w", err)
	}
	res.Doc = doc

	tasks, err := p.cfg.Decomposer.Decompose(ctx, doc)
	if err != nil {
		p.recordFinish(res, state.RunFailed, nil)
		return nil, fmt.Errorf("decomposing requirements: %w", err)
	}
	res.Tasks = tasks

	planned := plan.Run(tasks, p.cfg.Constraints)
	res.Report = planned.Report
	if !planned.Report.IsValid {
		p.recordFinish(res, state.RunInvalid, nil)
		return res, nil
	}
	execPlan := planned.Plan
	res.Plan = &execPlan
	p.saveTasks(res)

	if p.cfg.DryRun {
		p.recordFinish(res, state.RunCompleted, res.Plan)
		return res, nil
	}

	summary, err := p.dispatchTasks(ctx, res)
	res.Summary = summary
	if err != nil {
		p.recordFinish(res, state.RunFailed, res.Plan)
		return res, err
	}

	if err := p.publish(ctx, res, issues); err != nil {
		p.recordFinish(res, state.RunFailed, res.Plan)
		return res, err
	}

	status := state.RunCompleted
	if len(summary.Failed) > 0 {
		status = state.RunFailed
	}
	p.recordFinish(res, status, res.Plan)
	return res, nil
}

// dispatchTasks runs artifact generation through the phase-aware dispatcher.
func (p *Pipeline) dispatchTasks(ctx context.Context, res *Result) (dispatch.Summary, error) {
	byID := make(map[string]*models.Task, len(res.Tasks))
	for _, t := range res.Tasks {
		byID[t.ID] = t
	}

	d := dispatch.New(func(ctx context.Context, task *models.Task) error {
		artifact, err := p.cfg.Generator.Generate(ctx, task)
		if err != nil {
			return err
		}
		p.mu.Lock()
		p.artifacts = append(p.artifacts, artifact)
		p.mu.Unlock()
		if p.cfg.Store != nil {
			if err := p.cfg.Store.SaveArtifact(res.RunID, artifact); err != nil {
				return err
			}
		}
		return nil
	}, p.cfg.Dispatch)

	// The dispatcher drops events when nothing drains its buffer, so a
	// consumer goroutine runs for the whole dispatch stage.
	var forward sync.WaitGroup
	forward.Add(1)
	go func() {
		defer forward.Done()
		for e := range d.Events() {
			if p.cfg.OnEvent != nil {
				p.cfg.OnEvent(e)
			}
		}
	}()

	summary, err := d.Run(ctx, res.Tasks)
	forward.Wait()
	p.mu.Lock()
	res.Artifacts = p.artifacts
	p.mu.Unlock()
	p.saveTasks(res)
	return summary, err
}

// publish commits artifacts to the repo and comments on the source issues.
func (p *Pipeline) publish(ctx context.Context, res *Result, issues []models.Issue) error {
	if p.cfg.Publisher == nil || len(res.Artifacts) == 0 {
		return nil
	}

	files := make(map[string]string, len(res.Artifacts))
	for _, a := range res.Artifacts {
		files[a.Filename()] = a.Body
	}
	message := fmt.Sprintf("Add %d generated artifacts for run %s", len(files), res.RunID)
	if err := p.cfg.Publisher.PublishArtifacts(ctx, p.cfg.Branch, files, message); err != nil {
		return fmt.Errorf("publishing artifacts: %w", err)
	}

	body := summaryComment(res)
	for _, issue := range issues {
		if err := p.cfg.Publisher.PublishComment(ctx, issue.Number, body); err != nil {
			return fmt.Errorf("commenting on issue #%d: %w", issue.Number, err)
		}
	}
	return nil
}

func summaryComment(res *Result) string {
	succeeded := len(res.Summary.Succeeded)
	failed := len(res.Summary.Failed)
	return fmt.Sprintf(
		"Automated delivery run `%s` finished: %d task(s) succeeded, %d failed, %d blocked.\n"+
			"Planned %d phase(s), %.1f hours total, ~%d day(s).",
		res.RunID, succeeded, failed, len(res.Summary.Blocked),
		len(res.Plan.Phases), res.Plan.TotalHours, res.Plan.EstimatedDays)
}

func (p *Pipeline) recordStart(res *Result, issues []models.Issue) {
	if p.cfg.Store == nil {
		return
	}
	numbers := make([]int, len(issues))
	for i, is := range issues {
		numbers[i] = is.Number
	}
	// State errors never abort a run; history is best effort.
	_ = p.cfg.Store.CreateRun(&state.Run{
		ID:           res.RunID,
		Repo:         p.cfg.Repo,
		SourceIssues: numbers,
		Status:       state.RunRunning,
		StartedAt:    time.Now(),
	})
}

func (p *Pipeline) recordFinish(res *Result, status state.RunStatus, execPlan *models.ExecutionPlan) {
	if p.cfg.Store == nil {
		return
	}
	var hours float64
	var days int
	if execPlan != nil {
		hours = execPlan.TotalHours
		days = execPlan.EstimatedDays
	}
	_ = p.cfg.Store.FinishRun(res.RunID, status, hours, days)
}

func (p *Pipeline) saveTasks(res *Result) {
	if p.cfg.Store == nil || len(res.Tasks) == 0 {
		return
	}
	_ = p.cfg.Store.SaveTasks(res.RunID, res.Tasks)
}
