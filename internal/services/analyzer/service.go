// -----------------------------------------------------------------------
// Package analyzer groups run failures by normalized error signature,
// classifies each group and computes longitudinal health metrics.
// -----------------------------------------------------------------------

package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/models"
)

// Service implements the FailureAnalyzer interface.
type Service struct {
	logger           arbor.ILogger
	slowRunThreshold time.Duration
	fastRunThreshold time.Duration
}

// NewService creates a new failure analyzer.
func NewService(config *common.AnalysisConfig, logger arbor.ILogger) *Service {
	return &Service{
		logger:           logger,
		slowRunThreshold: common.ParseDurationOr(config.SlowRunThreshold, 5*time.Minute),
		fastRunThreshold: common.ParseDurationOr(config.FastRunThreshold, time.Minute),
	}
}

// failureGroup collects failures sharing one normalized signature.
type failureGroup struct {
	signature string
	tests     []string
}

// AnalyzeResults classifies the failures of one run and appends whole-run
// pattern findings, sorted by severity (critical first, stable otherwise).
func (s *Service) AnalyzeResults(result *models.RunResult) []models.AnalysisResult {
	analyses := []models.AnalysisResult{}
	if result == nil {
		return analyses
	}

	for _, group := range groupBySignature(result.Failures) {
		analyses = append(analyses, classifyGroup(group))
	}

	analyses = append(analyses, s.runPatternChecks(result)...)

	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].Severity.Rank() < analyses[j].Severity.Rank()
	})

	s.logger.Debug().
		Int("failures", len(result.Failures)).
		Int("findings", len(analyses)).
		Msg("Run analysis complete")

	return analyses
}

// groupBySignature buckets failures by normalized signature, preserving
// first-seen order.
func groupBySignature(failures []models.TestFailure) []*failureGroup {
	index := make(map[string]*failureGroup)
	groups := []*failureGroup{}
	for _, failure := range failures {
		signature := NormalizeSignature(failure.ErrorMessage)
		group, ok := index[signature]
		if !ok {
			group = &failureGroup{signature: signature}
			index[signature] = group
			groups = append(groups, group)
		}
		group.tests = append(group.tests, failure.TestName)
	}
	return groups
}

func classifyGroup(group *failureGroup) models.AnalysisResult {
	lowered := strings.ToLower(group.signature)
	for _, rule := range classificationRules {
		if !rule.matches(lowered) {
			continue
		}
		return models.AnalysisResult{
			Severity:      rule.severity(len(group.tests)),
			Category:      rule.category,
			Issue:         fmt.Sprintf("%s: %s", rule.issue, group.signature),
			Suggestion:    rule.suggestion,
			AffectedTests: group.tests,
			Confidence:    rule.confidence,
		}
	}
	// Unreachable: the last rule always matches.
	return models.AnalysisResult{}
}

// runPatternChecks produces findings from whole-run signals, independent of
// per-failure grouping.
func (s *Service) runPatternChecks(result *models.RunResult) []models.AnalysisResult {
	findings := []models.AnalysisResult{}

	if time.Duration(result.Duration)*time.Millisecond > s.slowRunThreshold {
		findings = append(findings, models.AnalysisResult{
			Severity:   models.SeverityMedium,
			Category:   "Performance",
			Issue:      fmt.Sprintf("Run took %s, over the %s threshold", (time.Duration(result.Duration) * time.Millisecond).Round(time.Second), s.slowRunThreshold),
			Suggestion: "Increase parallel workers or split the suite",
			Confidence: 0.90,
		})
	}

	if result.TotalTests > 0 {
		failureRate := float64(result.FailedTests) / float64(result.TotalTests)
		switch {
		case failureRate > 0.5:
			findings = append(findings, models.AnalysisResult{
				Severity:   models.SeverityCritical,
				Category:   "Stability",
				Issue:      fmt.Sprintf("%.0f%% of tests failed - suite is unstable", failureRate*100),
				Suggestion: "Check for environment-wide problems before triaging individual tests",
				Confidence: 0.95,
			})
		case failureRate > 0.2:
			findings = append(findings, models.AnalysisResult{
				Severity:   models.SeverityHigh,
				Category:   "Stability",
				Issue:      fmt.Sprintf("%.0f%% of tests failed", failureRate*100),
				Suggestion: "Triage the dominant failure categories first",
				Confidence: 0.90,
			})
		}
	}

	return findings
}
