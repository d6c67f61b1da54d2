package main

import (
	"fmt"
	"os"

	"github.com/chromedp/chromedp"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ternarybob/vigil/internal/browser"
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/services/healing"
	"github.com/ternarybob/vigil/internal/storage"
)

var (
	healURL      string
	healTestFile string
	healTestName string
	healApply    bool
)

var healCmd = &cobra.Command{
	Use:   "heal <selector>",
	Short: "Suggest or apply a repair for a broken selector",
	Long:  `Opens the target page in a headless browser and runs the healing strategies against the given selector. With --apply, the best candidate at or above the configured confidence threshold is persisted to the mapping store.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHeal,
}

func init() {
	healCmd.Flags().StringVar(&healURL, "url", "", "Page URL to probe against (required)")
	healCmd.Flags().StringVar(&healTestFile, "test-file", "", "Test file the selector belongs to")
	healCmd.Flags().StringVar(&healTestName, "test-name", "", "Test name the selector belongs to")
	healCmd.Flags().BoolVar(&healApply, "apply", false, "Persist the best candidate above the confidence threshold")
	healCmd.MarkFlagRequired("url")
}

func runHeal(cmd *cobra.Command, args []string) error {
	selector := args[0]

	store, err := storage.NewMappingStore(logger, &config.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	healingConfig := config.Healing
	if healApply {
		healingConfig.AutoApply = true
	}
	healer := healing.NewService(store, &healingConfig, logger)

	browserCtx, cancel := browser.NewHeadlessContext(cmd.Context())
	defer cancel()
	if err := chromedp.Run(browserCtx, chromedp.Navigate(healURL)); err != nil {
		return fmt.Errorf("failed to open %s: %w", healURL, err)
	}
	page := browser.NewPage(browserCtx)

	var hctx *models.HealingContext
	if healTestFile != "" || healTestName != "" {
		hctx = &models.HealingContext{TestFile: healTestFile, TestName: healTestName}
	}

	result, err := healer.HealSelector(browserCtx, page, selector, hctx)
	if err != nil {
		return err
	}

	printHealingResult(selector, result)
	if !result.Healed && len(result.Suggestions) == 0 {
		os.Exit(1)
	}
	return nil
}

func printHealingResult(selector string, result *models.HealingResult) {
	fmt.Printf("Selector: %s\n", selector)
	if result.Healed {
		fmt.Printf("%s %s\n", color.GreenString("Healed:"), result.Selector)
	} else {
		fmt.Printf("%s %s\n", color.YellowString("Not healed:"), result.Reason)
	}
	for _, suggestion := range result.Suggestions {
		fmt.Printf("  %.0f%% [%s] %s (%s)\n",
			suggestion.Confidence*100, suggestion.Type, suggestion.Selector, suggestion.Reason)
	}
}
