package plan

import (
	"github.com/jisaf/prodflow/pkg/models"
)

// CriticalPath returns the ordered task ids forming the longest
// cumulative-hours dependency chain, plus that chain's total hours.
//
// duration(t) = hours(t) + max(duration(dep)), with zero-dependency tasks
// contributing only their own estimate. Hours are clamped to non-negative.
// Ties in "maximum dependency duration" break toward the first dependency in
// declared order, so the result is deterministic for a given input order.
//
// The input is assumed acyclic; on a cyclic set the walk still terminates
// (an on-stack dependency contributes zero) but the result is meaningless.
// Callers must run FindCycles first and treat any cycle as fatal.
func CriticalPath(tasks []*models.Task) ([]string, float64) {
	a := newArena(tasks)
	if len(a.tasks) == 0 {
		return nil, 0
	}

	durations := make([]float64, len(a.tasks))
	states := a.newStates()

	// Post-order worklist: a node's duration is finalized only after every
	// resolvable dependency below it is done.
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

			hours := a.tasks[f.node].EstimatedHours
			if hours < 0 {
				hours = 0
			}
			var maxDep float64
			for _, dep := range a.deps[f.node] {
				if states[dep] == stateDone && durations[dep] > maxDep {
					maxDep = durations[dep]
				}
			}
			durations[f.node] = hours + maxDep
			states[f.node] = stateDone
			stack = stack[:len(stack)-1]
		}
	}

	// The chain's terminal node is the task with the maximum total duration;
	// ties break toward earlier input position.
	terminal := 0
	for i := 1; i < len(durations); i++ {
		if durations[i] > durations[terminal] {
			terminal = i
		}
	}

	// Reconstruct backwards by stepping to the first dependency holding the
	// maximum duration. The step cap guards against malformed cyclic input.
	var reversed []int
	node := terminal
	for steps := 0; steps <= len(a.tasks); steps++ {
		reversed = append(reversed, node)
		if len(a.deps[node]) == 0 {
			break
		}
		best := -1
		bestDur := -1.0
		for _, dep := range a.deps[node] {
			if durations[dep] > bestDur {
				bestDur = durations[dep]
				best = dep
			}
		}
		node = best
	}

	path := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, a.id(reversed[i]))
	}
	return path, durations[terminal]
}
