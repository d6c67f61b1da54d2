package models

import "time"

// Severity classifies how urgent an analyzed issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the sort rank of a severity, critical first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// AnalysisResult is one classified issue derived from one or more failures
// sharing a normalized error signature, or from a whole-run pattern check.
type AnalysisResult struct {
	Severity      Severity `json:"severity"`
	Category      string   `json:"category"`
	Issue         string   `json:"issue"`
	Suggestion    string   `json:"suggestion"`
	AffectedTests []string `json:"affected_tests"`
	Confidence    float64  `json:"confidence"`
}

// HealthMetrics is an aggregate view across multiple runs. It is always
// derivable from the supplied runs and never persisted as authoritative
// state.
type HealthMetrics struct {
	HealthScore     float64          `json:"health_score"`
	PassRate        float64          `json:"pass_rate"`
	AvgDuration     time.Duration    `json:"avg_duration"`
	FlakyTests      []string         `json:"flaky_tests"`
	SlowTests       []string         `json:"slow_tests"`
	Patterns        []AnalysisResult `json:"patterns"`
	Recommendations []string         `json:"recommendations"`
}
