package cmd

import (
	"os"

	"github.com/jrschumacher/integrationhub/internal/config"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "integrationhub",
	Short: "integrationhub CLI",
	Long:  `integrationhub brokers OAuth2 connections to Airtable, Notion and HubSpot and lists their items.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return config.Validate(cfg)
	},
}

func Execute(c *config.Config) {
	cfg = c
	logger.Info("Starting CLI", "env", cfg.AppEnv)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("CLI error", "error", err)
		os.Exit(1)
	}
}
