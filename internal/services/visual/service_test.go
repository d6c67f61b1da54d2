package visual

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/storage/file"
)

// fakePage returns pre-rendered PNG bytes for any capture and records the
// capture options it received.
type fakePage struct {
	png         []byte
	lastCapture models.CaptureOptions
}

func (p *fakePage) Probe(_ context.Context, _ string, _ time.Duration) error { return nil }
func (p *fakePage) HTML(_ context.Context) (string, error)                   { return "", nil }

func (p *fakePage) Screenshot(_ context.Context, opts models.CaptureOptions) ([]byte, error) {
	p.lastCapture = opts
	return p.png, nil
}

func (p *fakePage) ScreenshotElement(_ context.Context, _ string, opts models.CaptureOptions) ([]byte, error) {
	p.lastCapture = opts
	return p.png, nil
}

// makePNG renders a solid-color image with optional altered pixels.
func makePNG(t *testing.T, width, height int, base color.RGBA, altered int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, base)
		}
	}
	for i := 0; i < altered; i++ {
		img.SetRGBA(i%width, i/width, color.RGBA{R: 255 - base.R, G: 255 - base.G, B: 255 - base.B, A: 255})
	}
	data, err := encodePNG(img)
	require.NoError(t, err)
	return data
}

func newComparator(t *testing.T, updateBaselines bool) (*Comparator, *file.BaselineStore) {
	t.Helper()
	dir := t.TempDir()
	store := file.NewBaselineStore(dir+"/baselines", dir+"/diffs", common.GetLogger())
	config := &common.VisualConfig{Threshold: 0.1, UpdateBaselines: updateBaselines}
	return NewService(store, config, common.GetLogger()), store
}

func TestCompareScreenshot_Identical(t *testing.T) {
	comparator, store := newComparator(t, false)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	shot := makePNG(t, 100, 100, white, 0)
	require.NoError(t, store.Save("home page", shot))

	result, err := comparator.CompareScreenshot(context.Background(), &fakePage{png: shot}, "home page", nil)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Zero(t, result.DiffPixels)
	assert.Zero(t, result.DiffPercent)
	assert.True(t, result.BaselineExists)
	assert.Empty(t, result.DiffImagePath)
}

func TestCompareScreenshot_SmallDriftWithinThreshold(t *testing.T) {
	comparator, store := newComparator(t, false)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	require.NoError(t, store.Save("header", makePNG(t, 100, 100, white, 0)))

	// 5 of 10000 pixels differ: 0.05%, inside the 0.1% threshold.
	current := makePNG(t, 100, 100, white, 5)
	result, err := comparator.CompareScreenshot(context.Background(), &fakePage{png: current}, "header", nil)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 5, result.DiffPixels)
	assert.InDelta(t, 0.05, result.DiffPercent, 0.0001)
	assert.NotEmpty(t, result.DiffImagePath, "diff artifact written whenever pixels differ")
	assert.FileExists(t, result.DiffImagePath)
}

func TestCompareScreenshot_FailsOverThreshold(t *testing.T) {
	comparator, store := newComparator(t, false)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	require.NoError(t, store.Save("checkout", makePNG(t, 100, 100, white, 0)))

	// 500 of 10000 pixels differ: 5%, far over the 0.1% threshold.
	current := makePNG(t, 100, 100, white, 500)
	result, err := comparator.CompareScreenshot(context.Background(), &fakePage{png: current}, "checkout", nil)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.InDelta(t, 5.0, result.DiffPercent, 0.01)
	assert.Contains(t, result.Message, "pixels differ")
	assert.FileExists(t, result.DiffImagePath)
}

func TestCompareScreenshot_DimensionMismatch(t *testing.T) {
	comparator, store := newComparator(t, false)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	require.NoError(t, store.Save("sidebar", makePNG(t, 120, 100, white, 0)))

	current := makePNG(t, 100, 100, white, 0)
	result, err := comparator.CompareScreenshot(context.Background(), &fakePage{png: current}, "sidebar", nil)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 100.0, result.DiffPercent)
	assert.Contains(t, result.Message, "dimension mismatch")
	assert.Empty(t, result.DiffImagePath, "no pixel diff is rendered across sizes")
}

func TestCompareScreenshot_MissingBaseline(t *testing.T) {
	comparator, _ := newComparator(t, false)
	shot := makePNG(t, 50, 50, color.RGBA{R: 10, G: 20, B: 30, A: 255}, 0)

	result, err := comparator.CompareScreenshot(context.Background(), &fakePage{png: shot}, "brand new", nil)
	require.NoError(t, err)
	assert.False(t, result.Passed, "a missing baseline never silently passes")
	assert.False(t, result.BaselineExists)
	assert.Contains(t, result.Message, "no baseline")
}

func TestCompareScreenshot_MissingBaselineCreatedInUpdateMode(t *testing.T) {
	comparator, store := newComparator(t, true)
	shot := makePNG(t, 50, 50, color.RGBA{R: 10, G: 20, B: 30, A: 255}, 0)

	result, err := comparator.CompareScreenshot(context.Background(), &fakePage{png: shot}, "brand new", nil)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, "Baseline created", result.Message)

	saved, err := store.Load("brand new")
	require.NoError(t, err)
	assert.Equal(t, shot, saved)
}

func TestCompareScreenshot_UpdateModeReplacesOnFail(t *testing.T) {
	comparator, store := newComparator(t, true)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	require.NoError(t, store.Save("hero", makePNG(t, 100, 100, white, 0)))

	current := makePNG(t, 100, 100, white, 500)
	result, err := comparator.CompareScreenshot(context.Background(), &fakePage{png: current}, "hero", nil)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, "Baseline updated", result.Message)

	saved, err := store.Load("hero")
	require.NoError(t, err)
	assert.Equal(t, current, saved)
}

func TestCompareScreenshot_UpdateModeIdempotent(t *testing.T) {
	comparator, _ := newComparator(t, true)
	shot := makePNG(t, 80, 60, color.RGBA{R: 200, G: 200, B: 200, A: 255}, 0)
	page := &fakePage{png: shot}

	// First run creates the baseline, the second compares clean against it.
	first, err := comparator.CompareScreenshot(context.Background(), page, "stable view", nil)
	require.NoError(t, err)
	assert.True(t, first.Passed)
	assert.Equal(t, "Baseline created", first.Message)

	second, err := comparator.CompareScreenshot(context.Background(), page, "stable view", nil)
	require.NoError(t, err)
	assert.True(t, second.Passed)
	assert.Zero(t, second.DiffPixels)
	assert.NotContains(t, second.Message, "dimension mismatch")
}

func TestCompareElement_UsesOptionThreshold(t *testing.T) {
	comparator, store := newComparator(t, false)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	require.NoError(t, store.Save("nav", makePNG(t, 100, 100, white, 0)))

	// 5% drift passes once the per-check threshold is raised to 10%.
	current := makePNG(t, 100, 100, white, 500)
	opts := &models.CompareOptions{Threshold: 10}
	result, err := comparator.CompareElement(context.Background(), &fakePage{png: current}, "#nav", "nav", opts)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 10.0, result.Threshold)
}

func TestCompareElement_ForwardsCaptureOptions(t *testing.T) {
	comparator, store := newComparator(t, false)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	shot := makePNG(t, 40, 40, white, 0)
	require.NoError(t, store.Save("nav bar", shot))

	page := &fakePage{png: shot}
	opts := &models.CompareOptions{Capture: models.CaptureOptions{
		HideSelectors:    []string{".timestamp", ".spinner"},
		FreezeAnimations: true,
	}}
	result, err := comparator.CompareElement(context.Background(), page, "#nav", "nav bar", opts)
	require.NoError(t, err)
	assert.True(t, result.Passed)

	// Element captures apply the same masking and freeze preparation.
	assert.Equal(t, opts.Capture, page.lastCapture)
}

func TestBaselineManagement(t *testing.T) {
	comparator, store := newComparator(t, false)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	require.NoError(t, store.Save("one", makePNG(t, 10, 10, white, 0)))
	require.NoError(t, store.Save("two", makePNG(t, 10, 10, white, 0)))

	names, err := comparator.ListBaselines()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, names)

	require.NoError(t, comparator.DeleteBaseline("one"))
	names, err = comparator.ListBaselines()
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, names)

	require.NoError(t, comparator.ClearBaselines())
	names, err = comparator.ListBaselines()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDecodePNG_Invalid(t *testing.T) {
	_, err := decodePNG([]byte("not a png"))
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	data, err := encodePNG(img)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.Bounds().Dx())
}
