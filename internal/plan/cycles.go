package plan

import (
	"github.com/jisaf/prodflow/pkg/models"
)

// FindCycles returns every dependency cycle in the task set. Each cycle is an
// ordered sequence of task ids tracing the loop, with the starting id repeated
// as the final element. An acyclic set yields a nil result.
//
// References to unknown ids are not edges; they are reported separately by
// Validate and never fed into the search. Detection always terminates: total
// work is linear in edges because nodes fully explored from one root are
// skipped when reached from another.
func FindCycles(tasks []*models.Task) [][]string {
	a := newArena(tasks)
	return a.findCycles(a.newStates())
}

// frame is one level of the explicit traversal stack: a node and the index of
// its next unexplored dependency.
type frame struct {
	node int
	next int
}

func (a *arena) findCycles(states []nodeState) [][]string {
	var cycles [][]string

	for root := range a.tasks {
		if states[root] != stateUnvisited {
			continue
		}

		states[root] = stateOnStack
		stack := []frame{{node: root}}
		path := []int{root}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]

			if f.next < len(a.deps[f.node]) {
				dep := a.deps[f.node][f.next]
				f.next++

				switch states[dep] {
				case stateOnStack:
					// Back edge. The cycle is the suffix of the current path
					// starting at dep, closed by repeating dep.
					start := 0
					for i, n := range path {
						if n == dep {
							start = i
							break
						}
					}
					cycle := make([]string, 0, len(path)-start+1)
					for _, n := range path[start:] {
						cycle = append(cycle, a.id(n))
					}
					cycle = append(cycle, a.id(dep))
					cycles = append(cycles, cycle)
				case stateUnvisited:
					states[dep] = stateOnStack
					stack = append(stack, frame{node: dep})
					path = append(path, dep)
				}
				// stateDone: explored from a prior root, nothing new below it.
				continue
			}

			states[f.node] = stateDone
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		}
	}

	return cycles
}
