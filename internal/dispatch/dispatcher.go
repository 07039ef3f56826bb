package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jisaf/prodflow/pkg/models"
)

// TaskFunc executes one task. The pipeline composes artifact generation and
// collection into this function; the dispatcher only cares about success.
type TaskFunc func(ctx context.Context, task *models.Task) error

// Config contains dispatcher settings.
type Config struct {
	// MaxWorkers bounds concurrent task dispatches within a phase.
	// Zero or negative selects the default of 4.
	MaxWorkers int
	// TaskTimeout bounds a single task dispatch. Zero selects 10 minutes.
	TaskTimeout time.Duration
	// FailFast cancels the run on the first task failure instead of the
	// default collect-all behavior.
	FailFast bool
}

// Summary reports the outcome of a run.
type Summary struct {
	// Succeeded lists task ids that completed.
	Succeeded []string
	// Failed maps task ids to their dispatch errors.
	Failed map[string]error
	// Blocked lists task ids skipped because a dependency failed.
	Blocked []string
}

// Dispatcher fans tasks out phase by phase. Phase boundaries are
// synchronization barriers: no task of phase N+1 is dispatched until every
// dispatched task of phase N has returned, success or failure. Within a
// phase, failures do not cancel siblings unless FailFast is set.
type Dispatcher struct {
	run    TaskFunc
	cfg    Config
	events chan Event

	mu      sync.Mutex
	summary Summary
	failed  map[string]bool
}

// New creates a Dispatcher that executes tasks with run.
func New(run TaskFunc, cfg Config) *Dispatcher {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 10 * time.Minute
	}
	return &Dispatcher{
		run:    run,
		cfg:    cfg,
		events: make(chan Event, 100),
		failed: make(map[string]bool),
	}
}

// Events returns the channel for receiving dispatcher events.
// The channel is closed when Run returns.
func (d *Dispatcher) Events() <-chan Event {
	return d.events
}

// Run dispatches every task, phase by phase. Tasks must already carry phase
// annotations; Run returns an error only for unusable input or a fail-fast
// abort, never for ordinary per-task failures (those land in the Summary).
func (d *Dispatcher) Run(ctx context.Context, tasks []*models.Task) (Summary, error) {
	defer close(d.events)
	defer d.emit(Event{Type: EventRunDone})

	byPhase := make(map[int][]*models.Task)
	for _, task := range tasks {
		if task.Phase < 1 {
			return d.snapshot(), fmt.Errorf("task %s has no phase annotation", task.ID)
		}
		byPhase[task.Phase] = append(byPhase[task.Phase], task)
	}

	phases := make([]int, 0, len(byPhase))
	for p := range byPhase {
		phases = append(phases, p)
	}
	sort.Ints(phases)

	for _, p := range phases {
		group := byPhase[p]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Priority.Weight() < group[j].Priority.Weight()
		})

		d.emit(Event{Type: EventPhaseStarted, Phase: p, Message: fmt.Sprintf("%d task(s)", len(group))})

		if err := d.runPhase(ctx, p, group); err != nil {
			return d.snapshot(), err
		}

		d.emit(Event{Type: EventPhaseCompleted, Phase: p})

		if err := ctx.Err(); err != nil {
			return d.snapshot(), err
		}
	}

	return d.snapshot(), nil
}

// runPhase dispatches one phase and waits for every task to return.
func (d *Dispatcher) runPhase(ctx context.Context, phase int, group []*models.Task) error {
	g, phaseCtx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.MaxWorkers)

	for _, task := range group {
		if d.dependencyFailed(task) {
			task.Status = models.TaskStatusBlocked
			d.markBlocked(task)
			d.emit(Event{Type: EventTaskBlocked, Phase: phase, TaskID: task.ID, TaskTitle: task.Title,
				Message: "dependency failed"})
			continue
		}

		task := task
		g.Go(func() error {
			task.Status = models.TaskStatusInProgress
			d.emit(Event{Type: EventTaskStarted, Phase: phase, TaskID: task.ID, TaskTitle: task.Title})

			taskCtx, cancel := context.WithTimeout(phaseCtx, d.cfg.TaskTimeout)
			err := d.run(taskCtx, task)
			cancel()

			if err != nil {
				task.Status = models.TaskStatusFailed
				d.markFailed(task, err)
				d.emit(Event{Type: EventTaskFailed, Phase: phase, TaskID: task.ID, TaskTitle: task.Title, Err: err})
				if d.cfg.FailFast {
					return fmt.Errorf("task %s: %w", task.ID, err)
				}
				// Collect-all: the failure is recorded, siblings continue.
				return nil
			}

			task.Status = models.TaskStatusDone
			d.markSucceeded(task)
			d.emit(Event{Type: EventTaskCompleted, Phase: phase, TaskID: task.ID, TaskTitle: task.Title})
			return nil
		})
	}

	return g.Wait()
}

// dependencyFailed reports whether any direct dependency of the task failed
// or was itself blocked. Failed work must not unblock its dependents.
func (d *Dispatcher) dependencyFailed(task *models.Task) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, dep := range task.DependsOn {
		if d.failed[dep] {
			return true
		}
	}
	return false
}

func (d *Dispatcher) markSucceeded(task *models.Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.summary.Succeeded = append(d.summary.Succeeded, task.ID)
}

func (d *Dispatcher) markFailed(task *models.Task, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.summary.Failed == nil {
		d.summary.Failed = make(map[string]error)
	}
	d.summary.Failed[task.ID] = err
	d.failed[task.ID] = true
}

func (d *Dispatcher) markBlocked(task *models.Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.summary.Blocked = append(d.summary.Blocked, task.ID)
	d.failed[task.ID] = true
}

func (d *Dispatcher) snapshot() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

// emit sends an event without ever blocking the dispatch path.
func (d *Dispatcher) emit(e Event) {
	e.Timestamp = time.Now()
	select {
	case d.events <- e:
	default:
	}
}
