// Package plan implements dependency analysis and scheduling for task sets:
// cycle detection, critical-path computation, phase assignment for parallel
// execution, and validation reporting.
//
// All functions are pure computations over an in-memory task slice. State is
// scoped to each call; nothing is cached across calls. Traversals run over an
// explicit arena of index-resolved tasks with an explicit worklist, so graph
// size is bounded by memory, not stack depth.
package plan

import (
	"errors"

	"github.com/jisaf/prodflow/pkg/models"
)

// ErrCycle indicates a circular dependency was found in the task set.
var ErrCycle = errors.New("circular dependency detected")

// nodeState tracks traversal progress for a single arena node.
type nodeState uint8

const (
	stateUnvisited nodeState = iota
	stateOnStack
	stateDone
)

// danglingRef records a dependency on an id absent from the task set.
type danglingRef struct {
	taskID string
	depID  string
}

// arena is the index-resolved view of a task set built once per call.
// Dependencies that resolve are stored as indexes in declared order;
// references to unknown ids are recorded as dangling and never traversed.
type arena struct {
	tasks []*models.Task
	// index maps task id to its position in tasks. First occurrence wins.
	index map[string]int
	// deps holds resolved dependency indexes per task, input order preserved.
	deps [][]int
	// dangling lists unresolved dependency references.
	dangling []danglingRef
	// duplicates lists ids that appeared more than once.
	duplicates []string
}

func newArena(tasks []*models.Task) *arena {
	a := &arena{
		tasks: tasks,
		index: make(map[string]int, len(tasks)),
		deps:  make([][]int, len(tasks)),
	}

	for i, task := range tasks {
		if _, seen := a.index[task.ID]; seen {
			a.duplicates = append(a.duplicates, task.ID)
			continue
		}
		a.index[task.ID] = i
	}

	for i, task := range tasks {
		for _, depID := range task.DependsOn {
			j, ok := a.index[depID]
			if !ok {
				a.dangling = append(a.dangling, danglingRef{taskID: task.ID, depID: depID})
				continue
			}
			a.deps[i] = append(a.deps[i], j)
		}
	}

	return a
}

// newStates returns a fresh per-call state slice, all unvisited.
func (a *arena) newStates() []nodeState {
	return make([]nodeState, len(a.tasks))
}

func (a *arena) id(i int) string {
	return a.tasks[i].ID
}
