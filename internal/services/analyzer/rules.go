package analyzer

import (
	"strings"

	"github.com/ternarybob/vigil/internal/models"
)

// classificationRule classifies one signature group. Rules are evaluated in
// order against the lowercased signature; first match wins.
type classificationRule struct {
	keywords   []string
	category   string
	severity   func(groupSize int) models.Severity
	confidence float64
	issue      string
	suggestion string
}

func (r *classificationRule) matches(signature string) bool {
	if len(r.keywords) == 0 {
		return true
	}
	for _, keyword := range r.keywords {
		if strings.Contains(signature, keyword) {
			return true
		}
	}
	return false
}

func fixedSeverity(severity models.Severity) func(int) models.Severity {
	return func(int) models.Severity { return severity }
}

// classificationRules is the ordered rule table. The final catch-all rule
// has no keywords and always matches.
var classificationRules = []classificationRule{
	{
		keywords: []string{"timeout"},
		category: "Timeout",
		severity: func(groupSize int) models.Severity {
			if groupSize > 3 {
				return models.SeverityCritical
			}
			return models.SeverityHigh
		},
		confidence: 0.90,
		issue:      "Tests are timing out waiting for the application",
		suggestion: "Increase timeouts or investigate slow application responses",
	},
	{
		keywords:   []string{"not found", "locator"},
		category:   "Selector",
		severity:   fixedSeverity(models.SeverityHigh),
		confidence: 0.85,
		issue:      "Element selectors are failing to resolve",
		suggestion: "Update selectors or enable selector healing",
	},
	{
		keywords:   []string{"expect", "assertion"},
		category:   "Assertion",
		severity:   fixedSeverity(models.SeverityMedium),
		confidence: 0.80,
		issue:      "Assertions are failing against actual application state",
		suggestion: "Review expected values against current application behavior",
	},
	{
		keywords:   []string{"network", "fetch"},
		category:   "Network",
		severity:   fixedSeverity(models.SeverityCritical),
		confidence: 0.95,
		issue:      "Network requests are failing during tests",
		suggestion: "Check application connectivity and backend availability",
	},
	{
		category:   "Unknown",
		severity:   fixedSeverity(models.SeverityMedium),
		confidence: 0.60,
		issue:      "Unclassified test failure",
		suggestion: "Inspect the error message and stack trace manually",
	},
}
