// Package commands is the asset-catalog command line.
package commands

import (
	"asset-catalog/internal/config"
	"asset-catalog/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "asset-catalog",
	Short: "Multi-tenant IT asset catalog",
	Long: `asset-catalog stores IT assets for many organizations. Each organization
defines its own asset types and fields, links entities into a relationship
graph and keeps port layouts for network equipment.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(catalogCmd)
}

// setup loads the configuration and builds the logger. Flags override the
// environment.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "asset-catalog")
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
