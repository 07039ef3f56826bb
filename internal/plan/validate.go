package plan

import (
	"fmt"
	"strings"

	"github.com/jisaf/prodflow/pkg/models"
)

// Validate checks a task set against its structural invariants and the
// caller's declared constraints, returning one combined report.
//
// Structural findings (duplicate ids, dangling dependency references,
// dependency cycles) are errors and flip IsValid to false. Missing acceptance
// criteria and uncovered required capabilities are warnings; possible
// technical-constraint conflicts inferred from keyword overlap are info.
// Validate never returns a Go error for malformed input: it always terminates
// and always produces a report.
func Validate(tasks []*models.Task, constraints models.PlanningConstraints) models.ValidationReport {
	a := newArena(tasks)
	report := models.ValidationReport{IsValid: true}

	for _, id := range a.duplicates {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityError,
			TaskID:     id,
			Message:    fmt.Sprintf("duplicate task id %q", id),
			Suggestion: "assign each task a unique id",
		})
	}

	for _, ref := range a.dangling {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityError,
			TaskID:     ref.taskID,
			Message:    fmt.Sprintf("task %q depends on unknown task %q", ref.taskID, ref.depID),
			Suggestion: fmt.Sprintf("remove the invalid dependency %q or add a task with that id", ref.depID),
		})
	}

	report.Cycles = a.findCycles(a.newStates())
	for _, cycle := range report.Cycles {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityError,
			TaskID:     cycle[0],
			Message:    fmt.Sprintf("dependency cycle: %s", strings.Join(cycle, " -> ")),
			Suggestion: "restructure the tasks to eliminate the cycle",
		})
	}

	for _, task := range tasks {
		if len(task.AcceptanceCriteria) == 0 {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				TaskID:     task.ID,
				Message:    fmt.Sprintf("task %q has no acceptance criteria", task.ID),
				Suggestion: "add at least one verifiable completion condition",
			})
		}
		if task.EstimatedHours < 0 {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				TaskID:     task.ID,
				Message:    fmt.Sprintf("task %q has a negative hour estimate", task.ID),
				Suggestion: "estimates are treated as zero when negative",
			})
		}
		if task.Category != "" && !task.Category.Valid() {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				TaskID:     task.ID,
				Message:    fmt.Sprintf("task %q has unknown category %q", task.ID, task.Category),
				Suggestion: "use one of the fixed category values",
			})
		}
	}

	checkCapabilityCoverage(tasks, constraints.RequiredCapabilities, &report)
	checkConstraintOverlap(tasks, constraints.TechnicalConstraints, &report)

	for _, issue := range report.Issues {
		if issue.Severity == models.SeverityError {
			report.IsValid = false
			break
		}
	}

	return report
}

// checkCapabilityCoverage warns for each declared capability that no task
// mentions in its title, description, or category.
func checkCapabilityCoverage(tasks []*models.Task, capabilities []string, report *models.ValidationReport) {
	for _, capability := range capabilities {
		needle := strings.ToLower(strings.TrimSpace(capability))
		if needle == "" {
			continue
		}
		covered := false
		for _, task := range tasks {
			if taskMentions(task, needle) {
				covered = true
				break
			}
		}
		if !covered {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				Message:    fmt.Sprintf("no task covers required capability %q", capability),
				Suggestion: fmt.Sprintf("add a task addressing %q", capability),
			})
		}
	}
}

// checkConstraintOverlap flags tasks whose text shares keywords with a declared
// technical constraint. Keyword overlap only suggests a possible conflict, so
// the finding is informational.
func checkConstraintOverlap(tasks []*models.Task, technical []string, report *models.ValidationReport) {
	for _, constraint := range technical {
		keywords := significantWords(constraint)
		if len(keywords) == 0 {
			continue
		}
		for _, task := range tasks {
			text := strings.ToLower(task.Title + " " + task.Description)
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					report.Issues = append(report.Issues, models.ValidationIssue{
						Severity:   models.SeverityInfo,
						TaskID:     task.ID,
						Message:    fmt.Sprintf("task %q may interact with constraint %q (keyword %q)", task.ID, constraint, kw),
						Suggestion: "confirm the task honors this constraint",
					})
					break
				}
			}
		}
	}
}

func taskMentions(task *models.Task, needle string) bool {
	haystack := strings.ToLower(task.Title + " " + task.Description + " " + string(task.Category))
	return strings.Contains(haystack, needle)
}

// significantWords extracts lowercase words long enough to be meaningful
// overlap signals. Short connectives produce noise, not conflicts.
func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:()[]\"'")
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}
