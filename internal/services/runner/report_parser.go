package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/ternarybob/vigil/internal/models"
)

// Structured report shape emitted by the harness JSON reporter: a nested
// suite tree with specs, tests and per-attempt results.
type harnessReport struct {
	Suites []harnessSuite `json:"suites"`
}

type harnessSuite struct {
	Title  string         `json:"title"`
	File   string         `json:"file"`
	Suites []harnessSuite `json:"suites"`
	Specs  []harnessSpec  `json:"specs"`
}

type harnessSpec struct {
	Title string        `json:"title"`
	File  string        `json:"file"`
	Tests []harnessTest `json:"tests"`
}

type harnessTest struct {
	Status  string          `json:"status"` // "expected", "unexpected", "skipped", "flaky"
	Results []harnessResult `json:"results"`
}

type harnessResult struct {
	Status   string  `json:"status"` // "passed", "failed", "timedOut", "skipped"
	Duration float64 `json:"duration"`
	Error    *struct {
		Message string `json:"message"`
		Stack   string `json:"stack"`
	} `json:"error"`
	Attachments []struct {
		Name        string `json:"name"`
		Path        string `json:"path"`
		ContentType string `json:"contentType"`
	} `json:"attachments"`
}

// parseJSONReport reads and walks a structured results file, collecting
// every failed/unexpected test into a Failure record.
func parseJSONReport(path string) (*models.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report harnessReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("malformed results file: %w", err)
	}

	result := &models.RunResult{}
	for _, suite := range report.Suites {
		walkSuite(suite, result)
	}
	return result, nil
}

func walkSuite(suite harnessSuite, result *models.RunResult) {
	for _, child := range suite.Suites {
		walkSuite(child, result)
	}
	for _, spec := range suite.Specs {
		file := spec.File
		if file == "" {
			file = suite.File
		}
		for _, test := range spec.Tests {
			collectTest(spec.Title, file, test, result)
		}
	}
}

func collectTest(title, file string, test harnessTest, result *models.RunResult) {
	result.TotalTests++

	last := lastResult(test)
	if last != nil && last.Duration > 0 {
		result.Timings = append(result.Timings, models.TestTiming{
			TestName:   title,
			DurationMs: int64(last.Duration),
		})
	}

	switch test.Status {
	case "skipped":
		result.SkippedTests++
	case "failed", "unexpected":
		result.FailedTests++
		result.Failures = append(result.Failures, buildFailure(title, file, last))
	default:
		// "expected" and "flaky" both count as passing outcomes.
		result.PassedTests++
	}
}

func lastResult(test harnessTest) *harnessResult {
	if len(test.Results) == 0 {
		return nil
	}
	return &test.Results[len(test.Results)-1]
}

func buildFailure(title, file string, last *harnessResult) models.TestFailure {
	failure := models.TestFailure{
		TestName: title,
		TestFile: file,
	}
	if last == nil {
		return failure
	}
	if last.Error != nil {
		failure.ErrorMessage = last.Error.Message
		failure.StackTrace = last.Error.Stack
	}
	for _, att := range last.Attachments {
		switch att.Name {
		case "screenshot":
			failure.Screenshot = att.Path
		case "video":
			failure.Video = att.Path
		case "trace":
			failure.Trace = att.Path
		}
	}
	return failure
}

var (
	passedPattern  = regexp.MustCompile(`(\d+) passed`)
	failedPattern  = regexp.MustCompile(`(\d+) failed`)
	skippedPattern = regexp.MustCompile(`(\d+) skipped`)
)

// parseTextOutput scans raw harness output for summary lines. This fallback
// sacrifices per-failure detail but guarantees a RunResult for any
// subprocess outcome.
func parseTextOutput(output string) *models.RunResult {
	result := &models.RunResult{}
	result.PassedTests = sumMatches(passedPattern, output)
	result.FailedTests = sumMatches(failedPattern, output)
	result.SkippedTests = sumMatches(skippedPattern, output)
	result.TotalTests = result.PassedTests + result.FailedTests + result.SkippedTests
	return result
}

func sumMatches(pattern *regexp.Regexp, output string) int {
	total := 0
	for _, match := range pattern.FindAllStringSubmatch(output, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		total += n
	}
	return total
}
