// Package dispatch executes phase-annotated tasks with per-phase parallel
// fan-out and hard barriers between phases.
package dispatch

import "time"

// EventType represents the type of dispatcher event.
type EventType string

const (
	// EventPhaseStarted indicates a phase barrier was crossed and its tasks
	// are being dispatched.
	EventPhaseStarted EventType = "phase_started"
	// EventPhaseCompleted indicates every dispatch in the phase returned.
	EventPhaseCompleted EventType = "phase_completed"
	// EventTaskStarted indicates a task's agent began work.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task's agent finished successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task's agent returned an error.
	EventTaskFailed EventType = "task_failed"
	// EventTaskBlocked indicates a task was skipped because a dependency failed.
	EventTaskBlocked EventType = "task_blocked"
	// EventRunDone indicates the whole run finished.
	EventRunDone EventType = "run_done"
)

// Event is emitted by the dispatcher as a run progresses.
// The TUI and the headless logger both consume this stream.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// Phase is the phase number the event belongs to, when applicable.
	Phase int
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// TaskTitle is the title of the related task, if applicable.
	TaskTitle string
	// Message provides additional context about the event.
	Message string
	// Err contains error details for failure events.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
