package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prodflow",
	Short: "AI-assisted software delivery automation",
	Long: `Prodflow turns GitHub issues into delivered work: it synthesizes a
requirements document from open issues, decomposes it into a dependency-aware
task graph, validates and schedules the graph into parallel phases, dispatches
AI generation agents per category, and publishes the results back to GitHub.

Core capabilities:
- Scans labeled issues and synthesizes a business requirements document
- Decomposes requirements into categorized, estimated tasks
- Detects circular dependencies and computes the critical path
- Schedules tasks into parallel execution phases
- Generates per-task artifacts and commits them to the repository`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
