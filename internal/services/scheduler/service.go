// -----------------------------------------------------------------------
// Package scheduler runs the suite on a cron schedule and tracks suite
// health across runs.
// -----------------------------------------------------------------------

package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
)

// Service periodically runs the suite and recomputes health metrics over a
// bounded run history.
type Service struct {
	runner      interfaces.TestRunner
	analyzer    interfaces.FailureAnalyzer
	cron        *cron.Cron
	logger      arbor.ILogger
	schedule    string
	historySize int

	mu      sync.Mutex
	history []*models.RunResult
	running bool
}

// NewService creates a new health monitor. An empty schedule disables it.
func NewService(runner interfaces.TestRunner, analyzer interfaces.FailureAnalyzer, schedule string, historySize int, logger arbor.ILogger) *Service {
	if historySize <= 0 {
		historySize = 20
	}
	return &Service{
		runner:      runner,
		analyzer:    analyzer,
		cron:        cron.New(),
		logger:      logger,
		schedule:    schedule,
		historySize: historySize,
	}
}

// Start registers the schedule and begins monitoring.
func (s *Service) Start(ctx context.Context) error {
	if s.schedule == "" {
		return fmt.Errorf("no monitor schedule configured")
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("invalid monitor schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Msg("Health monitor started")
	return nil
}

// Stop halts monitoring; in-flight runs complete.
func (s *Service) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Health monitor stopped")
}

// LatestMetrics recomputes health metrics over the retained history.
func (s *Service) LatestMetrics() *models.HealthMetrics {
	s.mu.Lock()
	history := make([]*models.RunResult, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()
	return s.analyzer.CalculateHealthMetrics(history)
}

func (s *Service) tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous monitored run still in progress, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	result, err := s.runner.RunAllTests(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Monitored run failed")
		return
	}

	s.mu.Lock()
	s.history = append(s.history, result)
	if len(s.history) > s.historySize {
		s.history = s.history[len(s.history)-s.historySize:]
	}
	s.mu.Unlock()

	metrics := s.LatestMetrics()
	s.logger.Info().
		Float64("health_score", metrics.HealthScore).
		Float64("pass_rate", metrics.PassRate).
		Int("flaky_tests", len(metrics.FlakyTests)).
		Msg("Health check complete")
	for _, recommendation := range metrics.Recommendations {
		s.logger.Warn().Str("recommendation", recommendation).Msg("Health recommendation")
	}
}
