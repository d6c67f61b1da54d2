// -----------------------------------------------------------------------
// Package visual captures page and element screenshots and compares them
// pixel-by-pixel against stored baselines.
// -----------------------------------------------------------------------

package visual

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
)

// NewService creates a new visual comparator.
func NewService(store interfaces.BaselineStore, config *common.VisualConfig, logger arbor.ILogger) *Comparator {
	return &Comparator{
		store:           store,
		logger:          logger,
		threshold:       config.Threshold,
		updateBaselines: config.UpdateBaselines,
	}
}

// Comparator implements the VisualComparator interface.
type Comparator struct {
	store           interfaces.BaselineStore
	logger          arbor.ILogger
	threshold       float64
	updateBaselines bool
}

// CompareScreenshot captures the page and compares it against the named
// baseline.
func (c *Comparator) CompareScreenshot(ctx context.Context, page interfaces.PageDriver, name string, opts *models.CompareOptions) (*models.VisualResult, error) {
	capture := models.CaptureOptions{}
	if opts != nil {
		capture = opts.Capture
	}
	data, err := page.Screenshot(ctx, capture)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return c.compare(name, data, opts)
}

// CompareElement captures a single element and compares it against the
// named baseline.
func (c *Comparator) CompareElement(ctx context.Context, page interfaces.PageDriver, selector, name string, opts *models.CompareOptions) (*models.VisualResult, error) {
	capture := models.CaptureOptions{}
	if opts != nil {
		capture = opts.Capture
	}
	data, err := page.ScreenshotElement(ctx, selector, capture)
	if err != nil {
		return nil, fmt.Errorf("failed to capture element %s: %w", selector, err)
	}
	return c.compare(name, data, opts)
}

func (c *Comparator) compare(name string, current []byte, opts *models.CompareOptions) (*models.VisualResult, error) {
	threshold := c.threshold
	if opts != nil && opts.Threshold > 0 {
		threshold = opts.Threshold
	}

	baseline, err := c.store.Load(name)
	if err != nil {
		if !errors.Is(err, interfaces.ErrBaselineNotFound) {
			return nil, fmt.Errorf("failed to load baseline %s: %w", name, err)
		}
		return c.handleMissingBaseline(name, current, threshold)
	}

	baselineImg, err := decodePNG(baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline %s: %w", name, err)
	}
	currentImg, err := decodePNG(current)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", name, err)
	}

	bb, cb := baselineImg.Bounds(), currentImg.Bounds()
	if bb.Dx() != cb.Dx() || bb.Dy() != cb.Dy() {
		// Definitive fail: no pixel comparison is meaningful across sizes.
		return &models.VisualResult{
			Passed:         false,
			DiffPercent:    100,
			Threshold:      threshold,
			BaselineExists: true,
			Message: fmt.Sprintf("dimension mismatch: baseline %dx%d vs capture %dx%d",
				bb.Dx(), bb.Dy(), cb.Dx(), cb.Dy()),
		}, nil
	}

	diffPixels, diffImg, err := diffImages(baselineImg, currentImg)
	if err != nil {
		return nil, err
	}

	totalPixels := bb.Dx() * bb.Dy()
	diffPercent := float64(diffPixels) / float64(totalPixels) * 100
	result := &models.VisualResult{
		Passed:         diffPercent <= threshold,
		DiffPixels:     diffPixels,
		DiffPercent:    diffPercent,
		Threshold:      threshold,
		BaselineExists: true,
	}

	if diffPixels > 0 && diffImg != nil {
		if encoded, err := encodePNG(diffImg); err == nil {
			if path, err := c.store.SaveDiff(name, encoded); err == nil {
				result.DiffImagePath = path
			} else {
				c.logger.Warn().Err(err).Str("name", name).Msg("Failed to write diff image")
			}
		}
	}

	if result.Passed {
		result.Message = fmt.Sprintf("%.4f%% diff within %.4f%% threshold", diffPercent, threshold)
		return result, nil
	}

	if c.updateBaselines {
		if err := c.store.Save(name, current); err != nil {
			c.logger.Warn().Err(err).Str("name", name).Msg("Failed to update baseline")
		} else {
			result.Passed = true
			result.Message = "Baseline updated"
			c.logger.Info().Str("name", name).Float64("diff_percent", diffPercent).Msg("Baseline updated")
			return result, nil
		}
	}

	result.Message = fmt.Sprintf("%.4f%% of pixels differ (threshold %.4f%%)", diffPercent, threshold)
	return result, nil
}

// handleMissingBaseline never silently passes: it either creates the
// baseline (update mode) or fails with an instruction.
func (c *Comparator) handleMissingBaseline(name string, current []byte, threshold float64) (*models.VisualResult, error) {
	if c.updateBaselines {
		if err := c.store.Save(name, current); err != nil {
			return nil, fmt.Errorf("failed to create baseline %s: %w", name, err)
		}
		c.logger.Info().Str("name", name).Msg("Baseline created")
		return &models.VisualResult{
			Passed:         true,
			Threshold:      threshold,
			BaselineExists: false,
			Message:        "Baseline created",
		}, nil
	}
	return &models.VisualResult{
		Passed:         false,
		Threshold:      threshold,
		BaselineExists: false,
		Message:        fmt.Sprintf("no baseline for %q - run with update-baselines enabled to create one", name),
	}, nil
}

// ListBaselines returns all stored baseline names.
func (c *Comparator) ListBaselines() ([]string, error) { return c.store.List() }

// DeleteBaseline removes one named baseline.
func (c *Comparator) DeleteBaseline(name string) error { return c.store.Delete(name) }

// ClearBaselines removes all baselines.
func (c *Comparator) ClearBaselines() error { return c.store.Clear() }

// ClearDiffs removes all diff artifacts.
func (c *Comparator) ClearDiffs() error { return c.store.ClearDiffs() }
