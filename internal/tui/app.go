// Package tui provides the terminal user interface for prodflow runs.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jisaf/prodflow/internal/dispatch"
)

// DispatchEventMsg wraps a dispatcher event for the TUI.
type DispatchEventMsg struct {
	Event dispatch.Event
}

// RunDoneMsg signals that the pipeline run has completed.
type RunDoneMsg struct {
	Success bool
	Message string
}

// taskRow is one line in the task table.
type taskRow struct {
	ID     string
	Title  string
	Status string
	Phase  int
}

// App is the main bubbletea model for a prodflow run.
type App struct {
	spinner      spinner.Model
	currentPhase int
	rows         []taskRow
	index        map[string]int
	startedAt    time.Time
	width        int
	quitting     bool
	done         bool
	success      bool
	message      string
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	phaseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#96E6A1"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// New creates a new App instance.
func New() *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &App{
		spinner:   s,
		index:     make(map[string]int),
		startedAt: time.Now(),
		width:     80,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case DispatchEventMsg:
		a.handleEvent(msg.Event)

	case RunDoneMsg:
		a.done = true
		a.success = msg.Success
		a.message = msg.Message
		return a, tea.Quit
	}

	return a, nil
}

// handleEvent folds a dispatcher event into the task table.
func (a *App) handleEvent(e dispatch.Event) {
	switch e.Type {
	case dispatch.EventPhaseStarted:
		a.currentPhase = e.Phase
	case dispatch.EventTaskStarted:
		a.upsert(e, "running")
	case dispatch.EventTaskCompleted:
		a.upsert(e, "done")
	case dispatch.EventTaskFailed:
		a.upsert(e, "failed")
	case dispatch.EventTaskBlocked:
		a.upsert(e, "blocked")
	}
}

func (a *App) upsert(e dispatch.Event, status string) {
	if i, ok := a.index[e.TaskID]; ok {
		a.rows[i].Status = status
		return
	}
	a.index[e.TaskID] = len(a.rows)
	a.rows = append(a.rows, taskRow{ID: e.TaskID, Title: e.TaskTitle, Status: status, Phase: e.Phase})
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Canceled.\n"
	}

	header := titleStyle.Render("prodflow") + "  " +
		phaseStyle.Render(fmt.Sprintf("phase %d", a.currentPhase))
	if !a.done {
		header = a.spinner.View() + " " + header
	}

	body := ""
	for _, row := range a.rows {
		title := row.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		line := fmt.Sprintf("  %-8s %-50s %s", shortID(row.ID), title, row.Status)
		switch row.Status {
		case "done":
			line = doneStyle.Render(line)
		case "failed":
			line = failStyle.Render(line)
		case "blocked":
			line = blockedStyle.Render(line)
		}
		body += line + "\n"
	}
	if body == "" {
		body = "  waiting for tasks...\n"
	}

	footer := fmt.Sprintf("elapsed %s  (q to quit)", time.Since(a.startedAt).Round(time.Second))
	if a.done {
		if a.success {
			footer = doneStyle.Render("Run complete. " + a.message)
		} else {
			footer = failStyle.Render("Run failed. " + a.message)
		}
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n", header, body, footer)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
