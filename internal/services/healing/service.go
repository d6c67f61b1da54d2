// -----------------------------------------------------------------------
// Package healing repairs element selectors that no longer resolve, using
// ranked heuristic strategies backed by a persisted mapping store.
// -----------------------------------------------------------------------

package healing

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
)

// Service implements the SelectorHealer interface.
type Service struct {
	store        interfaces.MappingStore
	logger       arbor.ILogger
	enabled      bool
	autoApply    bool
	threshold    float64
	probeTimeout time.Duration
	strategies   []Strategy
}

// NewService creates a new healing engine.
func NewService(store interfaces.MappingStore, config *common.HealingConfig, logger arbor.ILogger) *Service {
	return &Service{
		store:        store,
		logger:       logger,
		enabled:      config.Enabled,
		autoApply:    config.AutoApply,
		threshold:    config.ConfidenceThreshold,
		probeTimeout: common.ParseDurationOr(config.ProbeTimeout, 2*time.Second),
		strategies:   defaultStrategies(),
	}
}

// HealSelector attempts to repair a broken selector. It re-probes the
// original first (transient timing produces false repairs otherwise), then
// consults persisted mappings, then runs the heuristic strategies. Healed is
// reported true only for a candidate that was probed and confirmed
// resolvable.
func (s *Service) HealSelector(ctx context.Context, page interfaces.PageDriver, selector string, hctx *models.HealingContext) (*models.HealingResult, error) {
	if !s.enabled {
		return &models.HealingResult{
			Healed:      false,
			Suggestions: []models.SelectorSuggestion{},
			Reason:      "healing is disabled",
		}, nil
	}

	probe := func(ctx context.Context, candidate string) bool {
		return page.Probe(ctx, candidate, s.probeTimeout) == nil
	}

	if probe(ctx, selector) {
		return &models.HealingResult{
			Healed:      false,
			Suggestions: []models.SelectorSuggestion{},
			Reason:      "selector still resolves - no healing needed",
		}, nil
	}

	if result := s.recallMapping(ctx, selector, hctx, probe); result != nil {
		return result, nil
	}

	suggestions := s.generateSuggestions(ctx, page, selector, probe)
	if len(suggestions) == 0 {
		return &models.HealingResult{
			Healed:      false,
			Suggestions: []models.SelectorSuggestion{},
			Reason:      "no strategy produced a resolvable candidate",
		}, nil
	}

	top := suggestions[0]
	if s.autoApply && top.Confidence >= s.threshold {
		s.persistMapping(ctx, selector, top, hctx)
		s.logger.Info().
			Str("original", selector).
			Str("healed", top.Selector).
			Float64("confidence", top.Confidence).
			Msg("Selector auto-healed")
		return &models.HealingResult{
			Healed:      true,
			Selector:    top.Selector,
			Suggestions: suggestions,
			Reason:      top.Reason,
		}, nil
	}

	return &models.HealingResult{
		Healed:      false,
		Suggestions: suggestions,
		Reason:      "candidates below auto-apply threshold - manual approval required",
	}, nil
}

// recallMapping short-circuits fresh heuristics when a previously validated
// repair still resolves.
func (s *Service) recallMapping(ctx context.Context, selector string, hctx *models.HealingContext, probe func(context.Context, string) bool) *models.HealingResult {
	testFile, testName := "", ""
	if hctx != nil {
		testFile, testName = hctx.TestFile, hctx.TestName
	}

	mapping, err := s.store.Find(ctx, selector, testFile, testName)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Mapping lookup failed, continuing with fresh strategies")
		return nil
	}
	if mapping == nil || !probe(ctx, mapping.HealedSelector) {
		return nil
	}

	suggestion := models.SelectorSuggestion{
		Selector:   mapping.HealedSelector,
		Type:       models.SuggestionMapping,
		Confidence: mapping.Confidence,
		Reason:     "previously validated repair",
	}
	return &models.HealingResult{
		Healed:      true,
		Selector:    mapping.HealedSelector,
		Suggestions: []models.SelectorSuggestion{suggestion},
		Reason:      suggestion.Reason,
	}
}

func (s *Service) generateSuggestions(ctx context.Context, page interfaces.PageDriver, selector string, probe func(context.Context, string) bool) []models.SelectorSuggestion {
	input := &strategyInput{
		page:     page,
		original: selector,
		parsed:   parseSelector(selector),
		probe:    probe,
	}

	if markup, err := page.HTML(ctx); err == nil {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup)); err == nil {
			input.snapshot = doc
		}
	} else {
		s.logger.Debug().Err(err).Msg("Could not capture DOM snapshot for healing")
	}

	suggestions := []models.SelectorSuggestion{}
	for _, strategy := range s.strategies {
		suggestions = append(suggestions, strategy.Generate(ctx, input)...)
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions
}

// persistMapping is best-effort: persistence is an optimization, not a
// correctness requirement.
func (s *Service) persistMapping(ctx context.Context, original string, suggestion models.SelectorSuggestion, hctx *models.HealingContext) {
	mapping := models.SelectorMapping{
		OriginalSelector: original,
		HealedSelector:   suggestion.Selector,
		Timestamp:        time.Now(),
		Confidence:       suggestion.Confidence,
	}
	if hctx != nil {
		mapping.TestFile = hctx.TestFile
		mapping.TestName = hctx.TestName
	}
	if err := s.store.Append(ctx, mapping); err != nil {
		s.logger.Warn().Err(err).Str("selector", original).Msg("Failed to persist selector mapping")
	}
}
