package plan

import (
	"fmt"
	"strings"

	"github.com/jisaf/prodflow/pkg/models"
)

// AssignPhases annotates every task with an execution phase such that
// phase(task) > phase(dep) for every resolvable dependency, and sets
// CanStartInParallel wherever two or more tasks share a phase. Tasks with no
// dependencies always land in phase 1.
//
// Phase assignment is only meaningful on a cycle-free graph, so cyclic input
// is rejected with an error wrapping ErrCycle rather than silently assigned a
// fallback phase. The annotation is recomputed from scratch, so repeated calls
// on the same valid set are idempotent.
func AssignPhases(tasks []*models.Task) error {
	a := newArena(tasks)

	if cycles := a.findCycles(a.newStates()); len(cycles) > 0 {
		return fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycles[0], " -> "))
	}

	phases := make([]int, len(a.tasks))
	states := a.newStates()

	// Post-order worklist; acyclicity was established above, so every
	// dependency is done before its dependent is finalized.
	for root := range a.tasks {
		if states[root] != stateUnvisited {
			continue
		}

		states[root] = stateOnStack
		stack := []frame{{node: root}}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]

			if f.next < len(a.deps[f.node]) {
				dep := a.deps[f.node][f.next]
				f.next++
				if states[dep] == stateUnvisited {
					states[dep] = stateOnStack
					stack = append(stack, frame{node: dep})
				}
				continue
			}

			maxDep := 0
			for _, dep := range a.deps[f.node] {
				if phases[dep] > maxDep {
					maxDep = phases[dep]
				}
			}
			phases[f.node] = 1 + maxDep
			states[f.node] = stateDone
			stack = stack[:len(stack)-1]
		}
	}

	counts := make(map[int]int)
	for _, p := range phases {
		counts[p]++
	}

	for i, task := range a.tasks {
		task.Phase = phases[i]
		task.CanStartInParallel = counts[phases[i]] >= 2
	}

	return nil
}
