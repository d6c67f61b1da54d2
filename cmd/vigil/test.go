package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/services/analyzer"
	"github.com/ternarybob/vigil/internal/services/runner"
)

var (
	testProject string
	testGrep    string
	testHeaded  bool
	testDebug   bool
	testWorkers int
	testRetries int
	testTimeout time.Duration
)

var testCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Run the suite, analyze failures and print a report",
	Long:  `Runs the configured harness, classifies any failures and prints the analysis report. The exit code mirrors the run outcome.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTest,
}

func init() {
	testCmd.Flags().StringVar(&testProject, "project", "", "Browser/environment project to run against")
	testCmd.Flags().StringVar(&testGrep, "grep", "", "Only run tests matching this pattern")
	testCmd.Flags().BoolVar(&testHeaded, "headed", false, "Run with a visible browser window")
	testCmd.Flags().BoolVar(&testDebug, "debug", false, "Run the harness in debug mode")
	testCmd.Flags().IntVar(&testWorkers, "workers", 0, "Parallel worker count (0 = harness default)")
	testCmd.Flags().IntVar(&testRetries, "retries", 0, "Per-test retry count")
	testCmd.Flags().DurationVar(&testTimeout, "timeout", 0, "Per-test timeout")
}

func runTest(cmd *cobra.Command, args []string) error {
	testPath := ""
	if len(args) > 0 {
		testPath = args[0]
	}

	runnerService := runner.NewService(runner.NewExecutor(logger), &config.Harness, logger)
	analyzerService := analyzer.NewService(&config.Analysis, logger)

	opts := runOptionsFromFlags()
	result, err := runnerService.Run(cmd.Context(), testPath, opts)
	if err != nil {
		return err
	}

	analyses := analyzerService.AnalyzeResults(result)
	fmt.Print(analyzer.FormatReport(result, analyses))

	if !result.Success {
		os.Exit(1)
	}
	return nil
}

func runOptionsFromFlags() models.RunOptions {
	opts := models.RunOptions{
		Project: testProject,
		Grep:    testGrep,
		Headed:  testHeaded,
		Debug:   testDebug,
		Workers: testWorkers,
		Retries: testRetries,
		Timeout: testTimeout,
	}
	if opts.Workers == 0 {
		opts.Workers = config.Harness.Workers
	}
	if opts.Retries == 0 {
		opts.Retries = config.Harness.Retries
	}
	if opts.Timeout == 0 {
		opts.Timeout = config.Harness.TestTimeout()
	}
	return opts
}
