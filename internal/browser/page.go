// -----------------------------------------------------------------------
// Package browser provides the chromedp-backed PageDriver used by the
// healing engine and visual comparator.
// -----------------------------------------------------------------------

package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/ternarybob/vigil/internal/models"
)

// freezeAnimationsCSS forces all CSS animations and transitions to zero
// duration so captures are deterministic.
const freezeAnimationsCSS = `*, *::before, *::after {
	animation-duration: 0s !important;
	animation-delay: 0s !important;
	transition-duration: 0s !important;
	transition-delay: 0s !important;
	caret-color: transparent !important;
}`

// Page adapts a chromedp browser context to the PageDriver interface.
type Page struct {
	ctx context.Context
}

// NewPage wraps an existing chromedp context.
func NewPage(ctx context.Context) *Page {
	return &Page{ctx: ctx}
}

// NewHeadlessContext creates a headless browser context with sensible
// defaults. The returned cancel func releases the browser.
func NewHeadlessContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		cancelBrowser()
		cancelAlloc()
	}
}

// Probe waits until the selector resolves to a visible element or the
// timeout elapses.
func (p *Page) Probe(ctx context.Context, selector string, timeout time.Duration) error {
	probeCtx, cancel := context.WithTimeout(p.run(ctx), timeout)
	defer cancel()
	if err := chromedp.Run(probeCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("selector %s did not resolve: %w", selector, err)
	}
	return nil
}

// HTML returns the current document markup.
func (p *Page) HTML(ctx context.Context) (string, error) {
	var markup string
	if err := chromedp.Run(p.run(ctx), chromedp.OuterHTML("html", &markup, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture document markup: %w", err)
	}
	return markup, nil
}

// Screenshot captures the page as PNG bytes, applying masking and animation
// freezing before capture.
func (p *Page) Screenshot(ctx context.Context, opts models.CaptureOptions) ([]byte, error) {
	actions := p.prepareActions(opts)

	var buf []byte
	switch {
	case opts.Clip != nil:
		clip := opts.Clip
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = cdppage.CaptureScreenshot().
				WithClip(&cdppage.Viewport{
					X:      clip.X,
					Y:      clip.Y,
					Width:  clip.Width,
					Height: clip.Height,
					Scale:  1,
				}).
				Do(ctx)
			return err
		}))
	case opts.FullPage:
		actions = append(actions, chromedp.FullScreenshot(&buf, 100))
	default:
		actions = append(actions, chromedp.CaptureScreenshot(&buf))
	}

	if err := chromedp.Run(p.run(ctx), actions...); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// ScreenshotElement captures a single visible element as PNG bytes, applying
// masking and animation freezing before capture.
func (p *Page) ScreenshotElement(ctx context.Context, selector string, opts models.CaptureOptions) ([]byte, error) {
	var buf []byte
	actions := p.prepareActions(opts)
	actions = append(actions,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Screenshot(selector, &buf, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err := chromedp.Run(p.run(ctx), actions...); err != nil {
		return nil, fmt.Errorf("failed to capture element %s: %w", selector, err)
	}
	return buf, nil
}

// prepareActions builds the style-injection actions applied before capture.
func (p *Page) prepareActions(opts models.CaptureOptions) []chromedp.Action {
	actions := []chromedp.Action{}
	if opts.FreezeAnimations {
		actions = append(actions, injectStyle(freezeAnimationsCSS))
	}
	if len(opts.HideSelectors) > 0 {
		css := strings.Join(opts.HideSelectors, ", ") + " { visibility: hidden !important; }"
		actions = append(actions, injectStyle(css))
	}
	return actions
}

func injectStyle(css string) chromedp.Action {
	script := fmt.Sprintf(`(() => {
		const style = document.createElement('style');
		style.textContent = %q;
		document.head.appendChild(style);
	})()`, css)
	return chromedp.Evaluate(script, nil)
}

// run prefers the caller's context when it carries chromedp state, falling
// back to the page's own context so deadlines from plain contexts still
// apply through chromedp.Run.
func (p *Page) run(ctx context.Context) context.Context {
	if chromedp.FromContext(ctx) != nil {
		return ctx
	}
	return p.ctx
}
