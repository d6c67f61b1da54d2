package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/services/analyzer"
	"github.com/ternarybob/vigil/internal/services/runner"
	"github.com/ternarybob/vigil/internal/services/scheduler"
)

// healthPassScore is the minimum health score for a zero exit code.
const healthPassScore = 80

var (
	healthProject string
	healthWorkers int
	healthWatch   bool
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run the suite and compute suite health metrics",
	Long:  `Runs the configured harness and computes health metrics. Exits 0 when the health score is 80 or above, 1 otherwise. With --watch, keeps running on the configured cron schedule.`,
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().StringVar(&healthProject, "project", "", "Browser/environment project to run against")
	healthCmd.Flags().IntVar(&healthWorkers, "workers", 0, "Parallel worker count (0 = harness default)")
	healthCmd.Flags().BoolVar(&healthWatch, "watch", false, "Keep monitoring on the configured schedule")
}

func runHealth(cmd *cobra.Command, args []string) error {
	runnerService := runner.NewService(runner.NewExecutor(logger), &config.Harness, logger)
	analyzerService := analyzer.NewService(&config.Analysis, logger)

	if healthWatch {
		monitor := scheduler.NewService(runnerService, analyzerService, config.Monitor.Schedule, config.Analysis.HistorySize, logger)
		if err := monitor.Start(cmd.Context()); err != nil {
			return err
		}
		defer monitor.Stop()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		return nil
	}

	opts := models.RunOptions{
		Project: healthProject,
		Workers: healthWorkers,
		Retries: config.Harness.Retries,
		Timeout: config.Harness.TestTimeout(),
	}
	result, err := runnerService.Run(cmd.Context(), "", opts)
	if err != nil {
		return err
	}

	metrics := analyzerService.CalculateHealthMetrics([]*models.RunResult{result})
	fmt.Print(analyzer.FormatHealthReport(metrics))

	if metrics.HealthScore < healthPassScore {
		os.Exit(1)
	}
	return nil
}
