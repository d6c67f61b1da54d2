package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/vigil/internal/storage"
)

var baselinesCmd = &cobra.Command{
	Use:   "baselines",
	Short: "Manage visual regression baselines",
}

var baselinesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored baseline names",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := storage.NewBaselineStore(logger, &config.Visual)
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No baselines stored")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var baselinesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete one named baseline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := storage.NewBaselineStore(logger, &config.Visual)
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		logger.Info().Str("name", args[0]).Msg("Baseline deleted")
		return nil
	},
}

var baselinesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all baselines",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := storage.NewBaselineStore(logger, &config.Visual)
		if err := store.Clear(); err != nil {
			return err
		}
		logger.Info().Msg("All baselines cleared")
		return nil
	},
}

var baselinesCleanDiffsCmd = &cobra.Command{
	Use:   "clean-diffs",
	Short: "Delete all diff artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := storage.NewBaselineStore(logger, &config.Visual)
		if err := store.ClearDiffs(); err != nil {
			return err
		}
		logger.Info().Msg("All diff artifacts cleared")
		return nil
	},
}

func init() {
	baselinesCmd.AddCommand(baselinesListCmd, baselinesDeleteCmd, baselinesClearCmd, baselinesCleanDiffsCmd)
}
