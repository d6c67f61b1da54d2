// -----------------------------------------------------------------------
// Package runner invokes the external browser-automation harness and
// normalizes its results into RunResult records.
// -----------------------------------------------------------------------

package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
)

// Service implements the TestRunner interface.
type Service struct {
	executor interfaces.CommandExecutor
	config   *common.HarnessConfig
	logger   arbor.ILogger
}

// NewService creates a new execution controller.
func NewService(executor interfaces.CommandExecutor, config *common.HarnessConfig, logger arbor.ILogger) *Service {
	return &Service{
		executor: executor,
		config:   config,
		logger:   logger,
	}
}

// Run invokes the harness for the given test path (empty = whole suite) and
// always returns a valid RunResult. Harness failures, non-zero exits and
// unparsable output all degrade to a result, never an error that loses the
// run.
func (s *Service) Run(ctx context.Context, testPath string, opts models.RunOptions) (*models.RunResult, error) {
	args := s.buildArgs(testPath, opts)
	s.clearStaleReport()

	execResult, err := s.executor.Execute(ctx, s.config.WorkDir, s.config.Command, args...)
	if err != nil {
		// Catastrophic invocation failure (binary missing, context dead).
		// Still produce a zero-detail result so the caller can report.
		s.logger.Warn().Err(err).Msg("Harness invocation failed")
		return &models.RunResult{
			ID:      uuid.NewString(),
			Success: false,
			Summary: fmt.Sprintf("harness invocation failed: %v", err),
		}, nil
	}

	rawOutput := execResult.Stdout
	if execResult.Stderr != "" {
		rawOutput += "\n" + execResult.Stderr
	}

	result := s.parseResults(rawOutput)
	result.ID = uuid.NewString()
	result.Duration = execResult.Duration.Milliseconds()
	result.RawOutput = rawOutput
	// Parsed counts alone are not trustworthy: a harness can exit non-zero
	// without emitting anything parseable, and that run still failed.
	result.Success = execResult.ExitCode == 0 && result.FailedTests == 0
	result.Summary = summarize(result)

	s.logger.Info().
		Int("total", result.TotalTests).
		Int("passed", result.PassedTests).
		Int("failed", result.FailedTests).
		Int("skipped", result.SkippedTests).
		Int("exit_code", execResult.ExitCode).
		Int64("duration_ms", result.Duration).
		Msg("Harness run completed")

	return result, nil
}

// buildArgs composes the harness command line from run options.
func (s *Service) buildArgs(testPath string, opts models.RunOptions) []string {
	args := append([]string{}, s.config.Args...)
	if testPath != "" {
		args = append(args, testPath)
	}
	if opts.Project != "" {
		args = append(args, fmt.Sprintf("--project=%s", opts.Project))
	}
	if opts.Grep != "" {
		args = append(args, fmt.Sprintf("--grep=%s", opts.Grep))
	}
	if opts.Headed {
		args = append(args, "--headed")
	}
	if opts.Debug {
		args = append(args, "--debug")
	}
	if opts.Workers > 0 {
		args = append(args, fmt.Sprintf("--workers=%d", opts.Workers))
	}
	if opts.Retries > 0 {
		args = append(args, fmt.Sprintf("--retries=%d", opts.Retries))
	}
	if opts.Timeout > 0 {
		args = append(args, fmt.Sprintf("--timeout=%d", opts.Timeout.Milliseconds()))
	}
	reporter := opts.Reporter
	if reporter == "" {
		reporter = s.config.Reporter
	}
	if reporter != "" {
		args = append(args, fmt.Sprintf("--reporter=%s", reporter))
	}
	return args
}

// parseResults prefers the structured results artifact and falls back to
// scanning raw output for summary lines.
func (s *Service) parseResults(rawOutput string) *models.RunResult {
	reportPath := filepath.Join(s.resolveResultsDir(), "results.json")
	if result, err := parseJSONReport(reportPath); err == nil {
		return result
	} else {
		s.logger.Debug().Err(err).Str("path", reportPath).Msg("No structured results, falling back to text parsing")
	}
	return parseTextOutput(rawOutput)
}

// clearStaleReport removes a results file left over from a previous run so
// it is never parsed as the current run's output.
func (s *Service) clearStaleReport() {
	reportPath := filepath.Join(s.resolveResultsDir(), "results.json")
	if err := os.Remove(reportPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("path", reportPath).Msg("Could not remove stale results file")
	}
}

func (s *Service) resolveResultsDir() string {
	if filepath.IsAbs(s.config.ResultsDir) || s.config.WorkDir == "" {
		return s.config.ResultsDir
	}
	return filepath.Join(s.config.WorkDir, s.config.ResultsDir)
}

// RunAllTests runs the entire suite with harness defaults.
func (s *Service) RunAllTests(ctx context.Context) (*models.RunResult, error) {
	return s.Run(ctx, "", s.defaultOptions())
}

// RunTestFile runs a single test file.
func (s *Service) RunTestFile(ctx context.Context, testPath string) (*models.RunResult, error) {
	return s.Run(ctx, testPath, s.defaultOptions())
}

// RunTestsByPattern runs tests whose names match the pattern.
func (s *Service) RunTestsByPattern(ctx context.Context, pattern string) (*models.RunResult, error) {
	opts := s.defaultOptions()
	opts.Grep = pattern
	return s.Run(ctx, "", opts)
}

// RunTestsForBrowser runs the suite against a single browser project.
func (s *Service) RunTestsForBrowser(ctx context.Context, project string) (*models.RunResult, error) {
	opts := s.defaultOptions()
	opts.Project = project
	return s.Run(ctx, "", opts)
}

func (s *Service) defaultOptions() models.RunOptions {
	return models.RunOptions{
		Workers: s.config.Workers,
		Retries: s.config.Retries,
		Timeout: s.config.TestTimeout(),
	}
}

func summarize(r *models.RunResult) string {
	banner := "PASSED"
	if !r.Success {
		banner = "FAILED"
	}
	return fmt.Sprintf("%d/%d passed (%d failed, %d skipped) in %s - %s",
		r.PassedTests, r.TotalTests, r.FailedTests, r.SkippedTests,
		(time.Duration(r.Duration) * time.Millisecond).Round(time.Millisecond), banner)
}
