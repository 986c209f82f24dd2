// Package cli holds the roomdir commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"roomdir/internal/config"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "roomdir",
	Short: "Browse, filter and serve a building's room directory",
	Long: `roomdir loads rooms, buildings and features from a room backend once
and lets you filter them by building, floor, features and free text, search
with autocomplete, open a room's details, and see the matching rooms
highlighted on a floor plan. It runs as an HTTP service, an interactive
terminal browser, or a one-shot renderer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log_level from config")
}

// loadConfig reads and validates the config, applying flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
