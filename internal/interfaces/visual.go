package interfaces

import (
	"context"

	"github.com/ternarybob/vigil/internal/models"
)

// VisualComparator captures screenshots and compares them against stored
// baselines.
type VisualComparator interface {
	CompareScreenshot(ctx context.Context, page PageDriver, name string, opts *models.CompareOptions) (*models.VisualResult, error)
	CompareElement(ctx context.Context, page PageDriver, selector, name string, opts *models.CompareOptions) (*models.VisualResult, error)

	ListBaselines() ([]string, error)
	DeleteBaseline(name string) error
	ClearBaselines() error
	ClearDiffs() error
}
