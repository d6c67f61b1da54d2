package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/ternarybob/vigil/internal/models"
)

const reportWidth = 64

// severityIcon returns the marker printed before each finding.
func severityIcon(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical:
		return color.RedString("✗")
	case models.SeverityHigh:
		return color.YellowString("!")
	case models.SeverityMedium:
		return color.CyanString("•")
	default:
		return "·"
	}
}

// FormatReport renders the fixed-format block report for one run.
func FormatReport(result *models.RunResult, analyses []models.AnalysisResult) string {
	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)

	b.WriteString(rule + "\n")
	b.WriteString(" TEST RESULTS\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, " Total: %d | Passed: %d | Failed: %d | Skipped: %d\n",
		result.TotalTests, result.PassedTests, result.FailedTests, result.SkippedTests)
	fmt.Fprintf(&b, " Pass rate: %.1f%% | Duration: %s\n",
		result.PassRate(), (time.Duration(result.Duration) * time.Millisecond).Round(time.Millisecond))
	if result.Success {
		fmt.Fprintf(&b, " %s\n", color.GreenString("✓ PASSED"))
	} else {
		fmt.Fprintf(&b, " %s\n", color.RedString("✗ FAILED"))
	}

	if len(analyses) > 0 {
		b.WriteString(strings.Repeat("-", reportWidth) + "\n")
		for _, analysis := range analyses {
			fmt.Fprintf(&b, " %s [%s] %s - %s\n",
				severityIcon(analysis.Severity), strings.ToUpper(string(analysis.Severity)),
				analysis.Category, analysis.Issue)
			fmt.Fprintf(&b, "   Suggestion: %s\n", analysis.Suggestion)
			fmt.Fprintf(&b, "   Confidence: %.0f%%\n", analysis.Confidence*100)
			if len(analysis.AffectedTests) > 0 {
				b.WriteString("   Affected: " + formatAffectedTests(analysis.AffectedTests) + "\n")
			}
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}

// formatAffectedTests lists up to 3 test names with an ellipsis for the rest.
func formatAffectedTests(tests []string) string {
	if len(tests) <= 3 {
		return strings.Join(tests, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(tests[:3], ", "), len(tests)-3)
}

// FormatHealthReport renders the aggregate health view.
func FormatHealthReport(metrics *models.HealthMetrics) string {
	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)

	b.WriteString(rule + "\n")
	b.WriteString(" SUITE HEALTH\n")
	b.WriteString(rule + "\n")

	score := fmt.Sprintf("%.0f/100", metrics.HealthScore)
	switch {
	case metrics.HealthScore >= 80:
		score = color.GreenString(score)
	case metrics.HealthScore >= 50:
		score = color.YellowString(score)
	default:
		score = color.RedString(score)
	}
	fmt.Fprintf(&b, " Health score: %s | Pass rate: %.1f%% | Avg duration: %s\n",
		score, metrics.PassRate, metrics.AvgDuration.Round(time.Millisecond))

	if len(metrics.FlakyTests) > 0 {
		fmt.Fprintf(&b, " Flaky tests: %s\n", formatAffectedTests(metrics.FlakyTests))
	}
	if len(metrics.SlowTests) > 0 {
		fmt.Fprintf(&b, " Slow tests: %s\n", formatAffectedTests(metrics.SlowTests))
	}
	if len(metrics.Recommendations) > 0 {
		b.WriteString(strings.Repeat("-", reportWidth) + "\n")
		for _, recommendation := range metrics.Recommendations {
			fmt.Fprintf(&b, " > %s\n", recommendation)
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}
