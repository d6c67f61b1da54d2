package interfaces

import "github.com/ternarybob/vigil/internal/models"

// FailureAnalyzer classifies run failures and computes longitudinal health
// metrics. Analysis results are returned sorted by severity, critical first.
type FailureAnalyzer interface {
	AnalyzeResults(result *models.RunResult) []models.AnalysisResult
	CalculateHealthMetrics(results []*models.RunResult) *models.HealthMetrics
}
