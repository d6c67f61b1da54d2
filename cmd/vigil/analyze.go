package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/vigil/internal/services/analyzer"
	"github.com/ternarybob/vigil/internal/services/runner"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the suite and print the failure analysis",
	Long:  `Runs the configured harness and prints the failure analysis without failing the process on test failures. Useful for triage in pipelines that gate elsewhere.`,
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	runnerService := runner.NewService(runner.NewExecutor(logger), &config.Harness, logger)
	analyzerService := analyzer.NewService(&config.Analysis, logger)

	result, err := runnerService.RunAllTests(cmd.Context())
	if err != nil {
		return err
	}

	analyses := analyzerService.AnalyzeResults(result)
	fmt.Print(analyzer.FormatReport(result, analyses))
	return nil
}
