package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/roi-sandbox/internal/config"
	"github.com/Simplici0/roi-sandbox/internal/roi"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "roi-sandbox",
	Short: "Security+ ROI sandbox and theory companion",
	Long:  "Serves an interactive ROI calculator for a security-services transformation, plus the slide-to-theory documents that accompany it.",
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
	// Without a subcommand the sandbox is served.
	RunE: runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func modelFromConfig(c *config.Config) roi.Model {
	return roi.NewModel(c.Engine.AvoidedCostWeight, c.Engine.PeriodMonths)
}
