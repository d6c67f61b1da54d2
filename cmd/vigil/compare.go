package main

import (
	"fmt"
	"os"

	"github.com/chromedp/chromedp"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ternarybob/vigil/internal/browser"
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/services/visual"
	"github.com/ternarybob/vigil/internal/storage"
)

var (
	compareURL       string
	compareSelector  string
	compareFullPage  bool
	compareThreshold float64
	compareUpdate    bool
	compareHide      []string
	compareFreeze    bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <name>",
	Short: "Capture a page and compare it against the named baseline",
	Long:  `Opens the target page in a headless browser, captures a screenshot and compares it against the stored baseline. With --update, a missing baseline is created and a failing comparison replaces the baseline.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareURL, "url", "", "Page URL to capture (required)")
	compareCmd.Flags().StringVar(&compareSelector, "selector", "", "Capture a single element instead of the viewport")
	compareCmd.Flags().BoolVar(&compareFullPage, "full-page", false, "Capture the full scrollable page")
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 0, "Max diff percentage for this check (0 = configured default)")
	compareCmd.Flags().BoolVar(&compareUpdate, "update", false, "Create or replace the baseline")
	compareCmd.Flags().StringSliceVar(&compareHide, "hide", nil, "Selectors to mask before capture")
	compareCmd.Flags().BoolVar(&compareFreeze, "freeze-animations", true, "Freeze CSS animations before capture")
	compareCmd.MarkFlagRequired("url")
}

func runCompare(cmd *cobra.Command, args []string) error {
	name := args[0]

	visualConfig := config.Visual
	if compareUpdate {
		visualConfig.UpdateBaselines = true
	}
	store := storage.NewBaselineStore(logger, &visualConfig)
	comparator := visual.NewService(store, &visualConfig, logger)

	browserCtx, cancel := browser.NewHeadlessContext(cmd.Context())
	defer cancel()
	if err := chromedp.Run(browserCtx, chromedp.Navigate(compareURL)); err != nil {
		return fmt.Errorf("failed to open %s: %w", compareURL, err)
	}
	page := browser.NewPage(browserCtx)

	opts := &models.CompareOptions{
		Capture: models.CaptureOptions{
			FullPage:         compareFullPage,
			HideSelectors:    compareHide,
			FreezeAnimations: compareFreeze,
		},
		Threshold: compareThreshold,
	}

	var result *models.VisualResult
	var err error
	if compareSelector != "" {
		result, err = comparator.CompareElement(browserCtx, page, compareSelector, name, opts)
	} else {
		result, err = comparator.CompareScreenshot(browserCtx, page, name, opts)
	}
	if err != nil {
		return err
	}

	printVisualResult(name, result)
	if !result.Passed {
		os.Exit(1)
	}
	return nil
}

func printVisualResult(name string, result *models.VisualResult) {
	status := color.GreenString("PASS")
	if !result.Passed {
		status = color.RedString("FAIL")
	}
	fmt.Printf("%s %s: %s\n", status, name, result.Message)
	if result.DiffPixels > 0 {
		fmt.Printf("  %d pixels differ (%.4f%%, threshold %.4f%%)\n",
			result.DiffPixels, result.DiffPercent, result.Threshold)
	}
	if result.DiffImagePath != "" {
		fmt.Printf("  Diff image: %s\n", result.DiffImagePath)
	}
}
