package plan

import (
	"math"
	"sort"
	"strings"

	"github.com/jisaf/prodflow/pkg/models"
)

// hoursPerDay is the working hours one team member contributes per day.
const hoursPerDay = 8

// BuildExecutionPlan groups phase-annotated tasks into an execution plan.
//
// A phase's wall-clock cost is the maximum single-task estimate in that phase,
// not the sum: tasks within a phase run with unlimited intra-phase parallelism,
// so the slowest task bounds the wave. Estimated calendar days divide total
// phase-hours by (teamSize * 8), rounded up, with teamSize defaulting to 1.
// Tasks without a phase annotation are treated as phase 1.
func BuildExecutionPlan(tasks []*models.Task, teamSize int) models.ExecutionPlan {
	if teamSize < 1 {
		teamSize = 1
	}

	byPhase := make(map[int][]*models.Task)
	for _, task := range tasks {
		p := task.Phase
		if p < 1 {
			p = 1
		}
		byPhase[p] = append(byPhase[p], task)
	}

	numbers := make([]int, 0, len(byPhase))
	for p := range byPhase {
		numbers = append(numbers, p)
	}
	sort.Ints(numbers)

	ep := models.ExecutionPlan{TeamSize: teamSize}
	for _, p := range numbers {
		group := byPhase[p]

		// Priority orders the listing only; scheduling structure comes from
		// the dependency graph. Stable keeps input order within a priority.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Priority.Weight() < group[j].Priority.Weight()
		})

		phase := models.PlanPhase{Phase: p}
		present := make(map[models.Category]bool)
		for _, task := range group {
			phase.TaskIDs = append(phase.TaskIDs, task.ID)
			present[task.Category] = true
			hours := task.EstimatedHours
			if hours < 0 {
				hours = 0
			}
			if hours > phase.Hours {
				phase.Hours = hours
			}
		}
		phase.Description = describeCategories(present)

		ep.TotalHours += phase.Hours
		ep.Phases = append(ep.Phases, phase)
	}

	ep.EstimatedDays = int(math.Ceil(ep.TotalHours / float64(teamSize*hoursPerDay)))
	if ep.EstimatedDays < 1 && len(tasks) > 0 {
		ep.EstimatedDays = 1
	}

	return ep
}

// describeCategories lists the distinct categories present, in display order.
func describeCategories(present map[models.Category]bool) string {
	var names []string
	for _, c := range models.Categories() {
		if present[c] {
			names = append(names, string(c))
		}
	}
	if len(names) == 0 {
		return "general work"
	}
	return strings.Join(names, ", ") + " work"
}
