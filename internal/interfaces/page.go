package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/vigil/internal/models"
)

// PageDriver is the narrow view of a live browser page needed by the healing
// engine and the visual comparator. The chromedp-backed implementation lives
// in internal/browser.
type PageDriver interface {
	// Probe waits until the selector resolves to a visible element, or the
	// timeout elapses.
	Probe(ctx context.Context, selector string, timeout time.Duration) error

	// HTML returns the current document markup.
	HTML(ctx context.Context) (string, error)

	// Screenshot captures the page as PNG bytes.
	Screenshot(ctx context.Context, opts models.CaptureOptions) ([]byte, error)

	// ScreenshotElement captures a single element as PNG bytes, applying
	// the same masking and animation-freeze preparation as Screenshot.
	ScreenshotElement(ctx context.Context, selector string, opts models.CaptureOptions) ([]byte, error)
}
