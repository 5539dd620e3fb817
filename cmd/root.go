package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrifin/cropadvisor/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cropadvisor",
	Short: "Crop recommendation engine for farm finance planning",
	Long:  "Ranks crops by expected profit from a farmer's field conditions, combining live mandi prices, a yield model, and a crop requirements catalog.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
