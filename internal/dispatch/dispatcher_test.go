package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jisaf/prodflow/pkg/models"
)

func phaseTasks() []*models.Task {
	return []*models.Task{
		{ID: "A", Title: "Task A", Phase: 1},
		{ID: "B", Title: "Task B", Phase: 2, DependsOn: []string{"A"}},
		{ID: "C", Title: "Task C", Phase: 2, DependsOn: []string{"A"}},
	}
}

func TestRunRespectsPhaseBarriers(t *testing.T) {
	var mu sync.Mutex
	var order []string

	run := func(_ context.Context, task *models.Task) error {
		mu.Lock()
		order = append(order, task.ID)
		mu.Unlock()
		return nil
	}

	d := New(run, Config{MaxWorkers: 4})
	summary, err := d.Run(context.Background(), phaseTasks())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Succeeded) != 3 {
		t.Errorf("expected 3 successes, got %v", summary.Succeeded)
	}
	if len(order) != 3 || order[0] != "A" {
		t.Errorf("phase 1 must run before phase 2, got order %v", order)
	}
}

func TestRunCollectAllContinuesPastFailure(t *testing.T) {
	boom := errors.New("boom")
	run := func(_ context.Context, task *models.Task) error {
		if task.ID == "B" {
			return boom
		}
		return nil
	}

	d := New(run, Config{})
	summary, err := d.Run(context.Background(), phaseTasks())
	if err != nil {
		t.Fatalf("collect-all must not surface task errors, got %v", err)
	}

	if !errors.Is(summary.Failed["B"], boom) {
		t.Errorf("expected B to fail with boom, got %v", summary.Failed)
	}
	// C shares B's phase and must still have run.
	found := false
	for _, id := range summary.Succeeded {
		if id == "C" {
			found = true
		}
	}
	if !found {
		t.Errorf("sibling C should succeed despite B failing, got %v", summary.Succeeded)
	}
}

func TestRunBlocksDependentsOfFailedTasks(t *testing.T) {
	boom := errors.New("boom")
	run := func(_ context.Context, task *models.Task) error {
		if task.ID == "A" {
			return boom
		}
		return nil
	}

	tasks := phaseTasks()
	d := New(run, Config{})
	summary, err := d.Run(context.Background(), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Blocked) != 2 {
		t.Errorf("B and C depend on failed A and should be blocked, got %v", summary.Blocked)
	}
	for _, task := range tasks[1:] {
		if task.Status != models.TaskStatusBlocked {
			t.Errorf("task %s status = %s, want blocked", task.ID, task.Status)
		}
	}
}

func TestRunFailFastReturnsError(t *testing.T) {
	boom := errors.New("boom")
	run := func(_ context.Context, task *models.Task) error {
		if task.ID == "A" {
			return boom
		}
		return nil
	}

	d := New(run, Config{FailFast: true})
	_, err := d.Run(context.Background(), phaseTasks())
	if !errors.Is(err, boom) {
		t.Errorf("fail-fast should surface the task error, got %v", err)
	}
}

func TestRunRejectsUnannotatedTasks(t *testing.T) {
	d := New(func(context.Context, *models.Task) error { return nil }, Config{})
	_, err := d.Run(context.Background(), []*models.Task{{ID: "A", Title: "A"}})
	if err == nil {
		t.Error("expected error for task without phase annotation")
	}
}

func TestRunEmitsLifecycleEvents(t *testing.T) {
	run := func(context.Context, *models.Task) error { return nil }
	d := New(run, Config{})

	if _, err := d.Run(context.Background(), phaseTasks()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := make(map[EventType]int)
	for e := range d.Events() {
		counts[e.Type]++
	}

	if counts[EventPhaseStarted] != 2 || counts[EventPhaseCompleted] != 2 {
		t.Errorf("expected 2 phase start/complete pairs, got %v", counts)
	}
	if counts[EventTaskStarted] != 3 || counts[EventTaskCompleted] != 3 {
		t.Errorf("expected 3 task start/complete pairs, got %v", counts)
	}
	if counts[EventRunDone] != 1 {
		t.Errorf("expected one run_done event, got %v", counts)
	}
}

func TestRunHonorsTaskTimeout(t *testing.T) {
	run := func(ctx context.Context, _ *models.Task) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}

	d := New(run, Config{TaskTimeout: 10 * time.Millisecond})
	summary, err := d.Run(context.Background(), []*models.Task{{ID: "slow", Title: "Slow", Phase: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, failed := summary.Failed["slow"]; !failed {
		t.Errorf("slow task should fail on timeout, got %+v", summary)
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := func(ctx context.Context, _ *models.Task) error { return ctx.Err() }
	d := New(run, Config{})

	_, err := d.Run(ctx, phaseTasks())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
