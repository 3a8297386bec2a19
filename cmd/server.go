package cmd

import (
	"github.com/jrschumacher/integrationhub/server"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"start"},
	Short:   "Start the integrationhub server",
	RunE: func(_ *cobra.Command, _ []string) error {
		return server.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
