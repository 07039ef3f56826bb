package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jisaf/prodflow/internal/brd"
	"github.com/jisaf/prodflow/internal/config"
	"github.com/jisaf/prodflow/internal/decompose"
	"github.com/jisaf/prodflow/internal/dispatch"
	"github.com/jisaf/prodflow/internal/generate"
	gh "github.com/jisaf/prodflow/internal/github"
	"github.com/jisaf/prodflow/internal/llm"
	"github.com/jisaf/prodflow/internal/pipeline"
	"github.com/jisaf/prodflow/internal/state"
	"github.com/jisaf/prodflow/internal/tui"
	"github.com/jisaf/prodflow/pkg/models"
)

var (
	runDryRun   bool
	runHeadless bool
	runFailFast bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full delivery pipeline against the configured repository",
	Long: `Scan the configured repository's open issues, synthesize a
requirements document, decompose it into a task graph, validate and schedule
the graph, dispatch artifact generation per phase, and publish the results.

With --dry-run the pipeline stops after planning and prints the plan.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Stop after planning; do not generate or publish")
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Plain log output instead of the TUI")
	runCmd.Flags().BoolVar(&runFailFast, "fail-fast", false, "Abort the run on the first task failure")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	token, err := config.GetGitHubToken(cfg)
	if err == nil {
		cfg.GitHub.Token = token
	}
	if key, err := config.GetAPIKey(cfg); err == nil {
		cfg.Anthropic.APIKey = key
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ghClient, err := gh.NewClient(ctx, cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo)
	if err != nil {
		return err
	}

	claude, err := llm.NewClient(llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Bedrock.Enabled,
		AWSRegion:     cfg.Bedrock.Region,
		AWSProfile:    cfg.Bedrock.Profile,
	})
	if err != nil {
		return fmt.Errorf("creating LLM client: %w", err)
	}

	pcfg := pipeline.Config{
		Source:      ghClient,
		Synthesizer: brd.New(claude),
		Decomposer:  decompose.New(claude),
		Generator:   generate.New(claude, modelName(cfg)),
		Publisher:   ghClient,
		Repo:        cfg.GitHub.Owner + "/" + cfg.GitHub.Repo,
		Labels:      cfg.GitHub.Labels,
		Branch:      cfg.GitHub.Branch,
		Constraints: models.PlanningConstraints{TeamSize: cfg.Defaults.TeamSize},
		Dispatch: dispatch.Config{
			MaxWorkers:  cfg.Dispatch.MaxWorkers,
			TaskTimeout: cfg.Dispatch.TaskTimeout,
			FailFast:    cfg.Dispatch.FailFast || runFailFast,
		},
		DryRun: runDryRun,
	}

	// Run history is best effort; a broken store should not stop delivery.
	statePath := cfg.State.Path
	if statePath == "" {
		statePath = state.DefaultPath()
	}
	if db, err := state.Open(statePath); err == nil {
		defer db.Close()
		if err := db.Migrate(); err == nil {
			pcfg.Store = db
		}
	}

	if runHeadless || runDryRun {
		return runPlain(ctx, pcfg)
	}
	return runWithTUI(ctx, pcfg)
}

// runPlain runs the pipeline with line-oriented output.
func runPlain(ctx context.Context, pcfg pipeline.Config) error {
	pcfg.OnEvent = printEvent

	p, err := pipeline.New(pcfg)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	printReport(res.Report)
	if !res.Report.IsValid {
		os.Exit(1)
	}
	printPlan(*res.Plan)
	if pcfg.DryRun {
		return nil
	}

	printSummary(res)
	if len(res.Summary.Failed) > 0 {
		os.Exit(1)
	}
	return nil
}

// runWithTUI runs the pipeline behind the bubbletea interface.
func runWithTUI(ctx context.Context, pcfg pipeline.Config) error {
	app := tui.New()
	program := tea.NewProgram(app)

	pcfg.OnEvent = func(e dispatch.Event) {
		if e.Type == dispatch.EventRunDone {
			return
		}
		program.Send(tui.DispatchEventMsg{Event: e})
	}

	p, err := pipeline.New(pcfg)
	if err != nil {
		return err
	}

	var res *pipeline.Result
	var runErr error
	go func() {
		res, runErr = p.Run(ctx)
		msg := tui.RunDoneMsg{Success: runErr == nil}
		if runErr != nil {
			msg.Message = runErr.Error()
		} else if res != nil && !res.Report.IsValid {
			msg.Success = false
			msg.Message = fmt.Sprintf("%d validation error(s)", len(res.Report.Errors()))
		} else if res != nil {
			msg.Message = fmt.Sprintf("%d artifact(s) generated", len(res.Artifacts))
		}
		program.Send(msg)
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	if runErr != nil {
		return runErr
	}
	if res != nil {
		printReport(res.Report)
		if !res.Report.IsValid {
			os.Exit(1)
		}
		printSummary(res)
		if len(res.Summary.Failed) > 0 {
			os.Exit(1)
		}
	}
	return nil
}

// printEvent logs one dispatcher event for headless runs.
func printEvent(e dispatch.Event) {
	switch e.Type {
	case dispatch.EventPhaseStarted:
		color.Cyan("== phase %d started (%s)", e.Phase, e.Message)
	case dispatch.EventPhaseCompleted:
		color.Cyan("== phase %d completed", e.Phase)
	case dispatch.EventTaskStarted:
		fmt.Printf("   running  %s\n", e.TaskTitle)
	case dispatch.EventTaskCompleted:
		color.Green("   done     %s", e.TaskTitle)
	case dispatch.EventTaskFailed:
		color.Red("   failed   %s: %v", e.TaskTitle, e.Err)
	case dispatch.EventTaskBlocked:
		color.Yellow("   blocked  %s (%s)", e.TaskTitle, e.Message)
	}
}

// printSummary prints the dispatch outcome.
func printSummary(res *pipeline.Result) {
	fmt.Println()
	color.Green("Succeeded: %d", len(res.Summary.Succeeded))
	if len(res.Summary.Failed) > 0 {
		color.Red("Failed: %d", len(res.Summary.Failed))
		for id, err := range res.Summary.Failed {
			color.Red("  %s: %v", id, err)
		}
	}
	if len(res.Summary.Blocked) > 0 {
		color.Yellow("Blocked: %s", strings.Join(res.Summary.Blocked, ", "))
	}
	if len(res.Artifacts) > 0 {
		fmt.Printf("Published %d artifact(s) for run %s\n", len(res.Artifacts), res.RunID)
	}
}

// modelName returns the artifact-metadata model name.
func modelName(cfg *config.Config) string {
	if cfg.Anthropic.Model != "" {
		return cfg.Anthropic.Model
	}
	return string(llm.DefaultModel)
}
