package interfaces

import (
	"context"

	"github.com/ternarybob/vigil/internal/models"
)

// SelectorHealer attempts to repair a selector that no longer resolves.
// Finding no viable candidate is a normal outcome, not an error.
type SelectorHealer interface {
	HealSelector(ctx context.Context, page PageDriver, selector string, hctx *models.HealingContext) (*models.HealingResult, error)
}
