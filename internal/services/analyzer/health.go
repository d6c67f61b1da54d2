package analyzer

import (
	"fmt"
	"time"

	"github.com/ternarybob/vigil/internal/models"
)

// CalculateHealthMetrics aggregates run results into a health view. Zero
// runs yields the optimistic default: score 100 with empty lists.
func (s *Service) CalculateHealthMetrics(results []*models.RunResult) *models.HealthMetrics {
	metrics := &models.HealthMetrics{
		HealthScore:     100,
		PassRate:        100,
		FlakyTests:      []string{},
		SlowTests:       []string{},
		Patterns:        []models.AnalysisResult{},
		Recommendations: []string{},
	}
	if len(results) == 0 {
		return metrics
	}

	var total, passed int
	var durationSum int64
	for _, result := range results {
		total += result.TotalTests
		passed += result.PassedTests
		durationSum += result.Duration
		metrics.Patterns = append(metrics.Patterns, s.AnalyzeResults(result)...)
	}

	if total > 0 {
		metrics.PassRate = float64(passed) / float64(total) * 100
	}
	metrics.AvgDuration = time.Duration(durationSum/int64(len(results))) * time.Millisecond
	metrics.FlakyTests = detectFlakyTests(results)
	metrics.SlowTests = s.detectSlowTests(results)

	// Health = 0.7 x pass rate + 0.3 x performance score. The performance
	// score is 100 at or below the fast threshold and decays linearly
	// beyond it.
	perfScore := 100.0
	if metrics.AvgDuration > s.fastRunThreshold {
		over := float64(metrics.AvgDuration-s.fastRunThreshold) / float64(s.fastRunThreshold)
		perfScore = 100 - over*100
	}
	metrics.HealthScore = clamp(0.7*metrics.PassRate+0.3*perfScore, 0, 100)
	metrics.Recommendations = s.recommendations(metrics)

	return metrics
}

// detectFlakyTests finds tests that failed in some runs but not all of them.
// A single run carries no repeat signal, so it can never mark a test flaky.
func detectFlakyTests(results []*models.RunResult) []string {
	if len(results) < 2 {
		return []string{}
	}
	failCounts := make(map[string]int)
	order := []string{}
	for _, result := range results {
		seen := make(map[string]bool)
		for _, failure := range result.Failures {
			if seen[failure.TestName] {
				continue
			}
			seen[failure.TestName] = true
			if failCounts[failure.TestName] == 0 {
				order = append(order, failure.TestName)
			}
			failCounts[failure.TestName]++
		}
	}
	flaky := []string{}
	for _, name := range order {
		if count := failCounts[name]; count > 0 && count < len(results) {
			flaky = append(flaky, name)
		}
	}
	return flaky
}

// detectSlowTests lists tests whose observed duration exceeded the fast-run
// threshold. Timings exist only for structured-report runs.
func (s *Service) detectSlowTests(results []*models.RunResult) []string {
	slowThresholdMs := s.fastRunThreshold.Milliseconds() / 2
	if slowThresholdMs <= 0 {
		slowThresholdMs = 30000
	}
	seen := make(map[string]bool)
	slow := []string{}
	for _, result := range results {
		for _, timing := range result.Timings {
			if timing.DurationMs > slowThresholdMs && !seen[timing.TestName] {
				seen[timing.TestName] = true
				slow = append(slow, timing.TestName)
			}
		}
	}
	return slow
}

func (s *Service) recommendations(metrics *models.HealthMetrics) []string {
	recommendations := []string{}
	if metrics.PassRate < 90 {
		recommendations = append(recommendations, "Pass rate is below 90% - prioritize stabilizing failing tests")
	}
	if metrics.AvgDuration > s.slowRunThreshold {
		recommendations = append(recommendations, "Average run duration is high - increase workers or split the suite")
	}
	if len(metrics.FlakyTests) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("%d flaky tests detected - quarantine and deflake them", len(metrics.FlakyTests)))
	}
	for _, pattern := range metrics.Patterns {
		if pattern.Severity == models.SeverityCritical {
			recommendations = append(recommendations, "Critical failure patterns present - address timeout and network issues first")
			break
		}
	}
	return recommendations
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
