package healing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/models"
)

// fakePage resolves only the selectors listed in resolvable.
type fakePage struct {
	resolvable map[string]bool
	markup     string
}

func (p *fakePage) Probe(_ context.Context, selector string, _ time.Duration) error {
	if p.resolvable[selector] {
		return nil
	}
	return context.DeadlineExceeded
}

func (p *fakePage) HTML(_ context.Context) (string, error) {
	return p.markup, nil
}

func (p *fakePage) Screenshot(_ context.Context, _ models.CaptureOptions) ([]byte, error) {
	return nil, nil
}

func (p *fakePage) ScreenshotElement(_ context.Context, _ string, _ models.CaptureOptions) ([]byte, error) {
	return nil, nil
}

// memoryStore is an in-memory MappingStore for tests.
type memoryStore struct {
	mappings []models.SelectorMapping
}

func (s *memoryStore) Load(_ context.Context) ([]models.SelectorMapping, error) {
	return s.mappings, nil
}

func (s *memoryStore) Append(_ context.Context, mapping models.SelectorMapping) error {
	s.mappings = append(s.mappings, mapping)
	return nil
}

func (s *memoryStore) Find(_ context.Context, original, testFile, testName string) (*models.SelectorMapping, error) {
	for i := len(s.mappings) - 1; i >= 0; i-- {
		if s.mappings[i].OriginalSelector == original {
			mapping := s.mappings[i]
			return &mapping, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) Close() error { return nil }

func newHealingService(store *memoryStore, autoApply bool) *Service {
	config := &common.HealingConfig{
		Enabled:             true,
		AutoApply:           autoApply,
		ConfidenceThreshold: 0.8,
		ProbeTimeout:        "50ms",
	}
	return NewService(store, config, common.GetLogger())
}

func TestHealSelector_Disabled(t *testing.T) {
	// A resolvable variant exists, but a disabled engine must not even probe.
	page := &fakePage{resolvable: map[string]bool{`[data-testid="instanceRow1"]`: true}}
	config := &common.HealingConfig{
		Enabled:             false,
		AutoApply:           true,
		ConfidenceThreshold: 0.8,
		ProbeTimeout:        "50ms",
	}
	service := NewService(&memoryStore{}, config, common.GetLogger())

	result, err := service.HealSelector(context.Background(), page, `[data-testid="instance-row-1"]`, nil)
	require.NoError(t, err)
	assert.False(t, result.Healed)
	assert.Empty(t, result.Suggestions)
	assert.Contains(t, result.Reason, "disabled")
}

func TestHealSelector_StillResolves(t *testing.T) {
	page := &fakePage{resolvable: map[string]bool{`[data-testid="login"]`: true}}
	service := newHealingService(&memoryStore{}, true)

	result, err := service.HealSelector(context.Background(), page, `[data-testid="login"]`, nil)
	require.NoError(t, err)
	assert.False(t, result.Healed)
	assert.Empty(t, result.Suggestions)
	assert.Contains(t, result.Reason, "still resolves")
}

func TestHealSelector_IdentifierVariation(t *testing.T) {
	page := &fakePage{resolvable: map[string]bool{`[data-testid="instanceRow1"]`: true}}
	service := newHealingService(&memoryStore{}, false)

	result, err := service.HealSelector(context.Background(), page, `[data-testid="instance-row-1"]`, nil)
	require.NoError(t, err)
	assert.False(t, result.Healed, "auto-apply disabled keeps the result pending")
	require.NotEmpty(t, result.Suggestions)

	top := result.Suggestions[0]
	assert.Equal(t, `[data-testid="instanceRow1"]`, top.Selector)
	assert.Equal(t, models.SuggestionIdentifierVariation, top.Type)
	assert.InDelta(t, Similarity("instance-row-1", "instanceRow1"), top.Confidence, 0.0001)
}

func TestHealSelector_AutoApply(t *testing.T) {
	// The digits-stripped variant scores well above the 0.8 threshold.
	page := &fakePage{resolvable: map[string]bool{`[data-testid="instance-row"]`: true}}
	store := &memoryStore{}
	service := newHealingService(store, true)

	hctx := &models.HealingContext{TestFile: "dashboard.spec.ts", TestName: "shows instance rows"}
	result, err := service.HealSelector(context.Background(), page, `[data-testid="instance-row-1"]`, hctx)
	require.NoError(t, err)
	require.True(t, result.Healed)
	assert.Equal(t, `[data-testid="instance-row"]`, result.Selector)

	// Auto-applied repairs are persisted with their context.
	require.Len(t, store.mappings, 1)
	assert.Equal(t, `[data-testid="instance-row-1"]`, store.mappings[0].OriginalSelector)
	assert.Equal(t, `[data-testid="instance-row"]`, store.mappings[0].HealedSelector)
	assert.Equal(t, "dashboard.spec.ts", store.mappings[0].TestFile)
	assert.False(t, store.mappings[0].Timestamp.IsZero())
}

func TestHealSelector_BelowThresholdNotApplied(t *testing.T) {
	// Only a text-match candidate resolves; its 0.70 confidence sits below
	// the 0.8 auto-apply threshold.
	page := &fakePage{
		resolvable: map[string]bool{`[data-testid="welcome-banner"]`: true},
		markup:     `<html><body><div data-testid="welcome-banner">Welcome back</div></body></html>`,
	}
	store := &memoryStore{}
	service := newHealingService(store, true)

	result, err := service.HealSelector(context.Background(), page, `text=Welcome back`, nil)
	require.NoError(t, err)
	assert.False(t, result.Healed)
	require.NotEmpty(t, result.Suggestions)
	assert.Equal(t, models.SuggestionTextMatch, result.Suggestions[0].Type)
	assert.Contains(t, result.Reason, "below auto-apply threshold")
	assert.Empty(t, store.mappings)
}

func TestHealSelector_MappingRecall(t *testing.T) {
	page := &fakePage{resolvable: map[string]bool{`[data-testid="new-login"]`: true}}
	store := &memoryStore{mappings: []models.SelectorMapping{{
		OriginalSelector: `[data-testid="old-login"]`,
		HealedSelector:   `[data-testid="new-login"]`,
		Timestamp:        time.Now().Add(-time.Hour),
		Confidence:       0.92,
	}}}
	service := newHealingService(store, false)

	result, err := service.HealSelector(context.Background(), page, `[data-testid="old-login"]`, nil)
	require.NoError(t, err)
	require.True(t, result.Healed)
	assert.Equal(t, `[data-testid="new-login"]`, result.Selector)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, models.SuggestionMapping, result.Suggestions[0].Type)
	assert.Equal(t, 0.92, result.Suggestions[0].Confidence)
}

func TestHealSelector_StaleMappingFallsThrough(t *testing.T) {
	// The stored repair no longer resolves either, so fresh strategies run.
	page := &fakePage{resolvable: map[string]bool{`[data-testid="loginForm"]`: true}}
	store := &memoryStore{mappings: []models.SelectorMapping{{
		OriginalSelector: `[data-testid="login-form"]`,
		HealedSelector:   `[data-testid="gone"]`,
		Confidence:       0.9,
	}}}
	service := newHealingService(store, false)

	result, err := service.HealSelector(context.Background(), page, `[data-testid="login-form"]`, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Suggestions)
	assert.Equal(t, `[data-testid="loginForm"]`, result.Suggestions[0].Selector)
}

func TestHealSelector_NoCandidates(t *testing.T) {
	page := &fakePage{resolvable: map[string]bool{}}
	service := newHealingService(&memoryStore{}, true)

	result, err := service.HealSelector(context.Background(), page, `[data-testid="vanished"]`, nil)
	require.NoError(t, err)
	assert.False(t, result.Healed)
	assert.Empty(t, result.Suggestions)
	assert.Contains(t, result.Reason, "no strategy produced a resolvable candidate")
}

func TestHealSelector_SortedByConfidence(t *testing.T) {
	// Both a role fallback and the role attribute form resolve, plus an
	// identifier variant does not apply here; confidences must be descending.
	page := &fakePage{resolvable: map[string]bool{
		`[role="button"][aria-label*="Save"]`: true,
		`button[aria-label*="Save"]`:          true,
	}}
	service := newHealingService(&memoryStore{}, false)

	result, err := service.HealSelector(context.Background(), page, `role=button[name="Save"]`, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Suggestions), 2)
	for i := 1; i < len(result.Suggestions); i++ {
		assert.GreaterOrEqual(t, result.Suggestions[i-1].Confidence, result.Suggestions[i].Confidence)
	}
}
