package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
)

var (
	configFiles []string

	// Global state shared by subcommands, populated in initApp.
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:           "vigil",
	Short:         "Test orchestration, failure analysis and self-healing for browser suites",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&configFiles, "config", "c", nil,
		"Configuration file path (can be specified multiple times, later files override earlier ones)")
	rootCmd.AddCommand(testCmd, healthCmd, analyzeCmd, healCmd, compareCmd, baselinesCmd, versionCmd)
}

// initApp loads configuration and initializes logging. Startup order:
// config (defaults -> files), then CLI flag overrides inside each command,
// then logger, then banner.
func initApp(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("vigil.toml"); err == nil {
			configFiles = append(configFiles, "vigil.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return err
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		common.GetLogger().Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
