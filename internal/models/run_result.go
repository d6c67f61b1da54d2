package models

import "time"

// RunOptions configures a single harness invocation.
type RunOptions struct {
	Project  string        // target browser/environment passed as --project
	Grep     string        // test name filter pattern
	Headed   bool          // run with a visible browser window
	Debug    bool          // run the harness in debug mode
	Workers  int           // parallel worker count (0 = harness default)
	Retries  int           // per-test retry count delegated to the harness
	Timeout  time.Duration // per-test timeout (0 = harness default)
	Reporter string        // reporter selection (default "json")
}

// TestFailure is one failed test case within a run. Artifact paths are
// optional and may be empty when the harness did not capture them.
type TestFailure struct {
	TestName     string `json:"test_name"`
	TestFile     string `json:"test_file"`
	ErrorMessage string `json:"error_message"`
	StackTrace   string `json:"stack_trace,omitempty"`
	Screenshot   string `json:"screenshot,omitempty"`
	Video        string `json:"video,omitempty"`
	Trace        string `json:"trace,omitempty"`
}

// TestTiming records the observed duration of a single test. Only available
// when the harness produced a structured results file.
type TestTiming struct {
	TestName   string `json:"test_name"`
	DurationMs int64  `json:"duration_ms"`
}

// RunResult is the normalized outcome of one harness invocation. It is
// created once per run and immutable afterwards. Invariant:
// PassedTests + FailedTests + SkippedTests == TotalTests.
type RunResult struct {
	ID           string        `json:"id"`
	Success      bool          `json:"success"`
	TotalTests   int           `json:"total_tests"`
	PassedTests  int           `json:"passed_tests"`
	FailedTests  int           `json:"failed_tests"`
	SkippedTests int           `json:"skipped_tests"`
	Duration     int64         `json:"duration_ms"`
	Failures     []TestFailure `json:"failures"`
	Timings      []TestTiming  `json:"timings,omitempty"`
	Summary      string        `json:"summary"`
	RawOutput    string        `json:"-"`
}

// PassRate returns the percentage of tests that passed, 100 for an empty run.
func (r *RunResult) PassRate() float64 {
	if r.TotalTests == 0 {
		return 100
	}
	return float64(r.PassedTests) / float64(r.TotalTests) * 100
}

// TestArtifacts groups artifact files collected for a single test name.
type TestArtifacts struct {
	Screenshots []string `json:"screenshots"`
	Videos      []string `json:"videos"`
	Traces      []string `json:"traces"`
}
