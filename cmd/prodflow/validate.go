package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jisaf/prodflow/internal/plan"
)

var validateCmd = &cobra.Command{
	Use:   "validate <tasks.yaml>",
	Short: "Validate a task file without planning",
	Long: `Check a task file for structural problems: duplicate ids, references
to missing tasks, circular dependencies, and quality warnings such as missing
acceptance criteria. Exits non-zero when the task set is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, constraints, err := loadTaskFile(args[0])
		if err != nil {
			return err
		}

		report := plan.Validate(tasks, constraints)
		printReport(report)
		if !report.IsValid {
			os.Exit(1)
		}
		return nil
	},
}
