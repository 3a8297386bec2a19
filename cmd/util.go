package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jrschumacher/integrationhub/internal/cache"
	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/jrschumacher/integrationhub/internal/oauth"
	"github.com/jrschumacher/integrationhub/internal/validation"
	"github.com/spf13/cobra"
)

var utilCmd = &cobra.Command{
	Use:     "util",
	Aliases: []string{"utils"},
	Short:   "Utility commands for integrationhub",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Println("Available utility commands:")
		for _, c := range cmd.Commands() {
			fmt.Printf("  %-14s %s\n", c.Name(), c.Short)
		}
	},
}

var utilProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the supported providers and their OAuth endpoints",
	RunE: func(_ *cobra.Command, _ []string) error {
		for _, pt := range oauth.ProviderTypes() {
			pc, err := oauth.ProviderConfig(pt, cfg)
			if err != nil {
				return err
			}
			configured := "no"
			if pc.ClientID != "" {
				configured = "yes"
			}
			fmt.Printf("%s\n  auth:       %s\n  token:      %s\n  redirect:   %s\n  configured: %s\n",
				pc.Name, pc.AuthURL, pc.TokenURL, pc.RedirectURI, configured)
		}
		return nil
	},
}

var utilCachePingCmd = &cobra.Command{
	Use:   "cache-ping",
	Short: "Check the configured cache backend is reachable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		store, err := cache.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("cache %s unreachable: %w", cfg.CacheBackend, err)
		}
		fmt.Printf("cache %s ok\n", cfg.CacheBackend)
		return nil
	},
}

var (
	authorizeProvider string
	authorizeUserID   string
	authorizeOrgID    string
)

var utilAuthorizeURLCmd = &cobra.Command{
	Use:   "authorize-url",
	Short: "Record a state and print the consent URL for a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		iv := validation.IdentityValidation{UserID: authorizeUserID, OrgID: authorizeOrgID}
		if err := iv.Validate(); err != nil {
			return err
		}
		pt, err := oauth.ParseProviderType(authorizeProvider)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		store, err := cache.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := oauth.NewProvider(pt, cfg, store, integration.NewHTTPClient(cfg.HTTPTimeout))
		if err != nil {
			return err
		}
		authURL, err := p.Authorize(ctx, iv.UserID, iv.OrgID)
		if err != nil {
			return err
		}
		fmt.Println(authURL)
		return nil
	},
}

func init() {
	utilAuthorizeURLCmd.Flags().StringVar(&authorizeProvider, "provider", "", "provider name (airtable, notion, hubspot)")
	utilAuthorizeURLCmd.Flags().StringVar(&authorizeUserID, "user-id", "", "user identifier")
	utilAuthorizeURLCmd.Flags().StringVar(&authorizeOrgID, "org-id", "", "organization identifier")
	_ = utilAuthorizeURLCmd.MarkFlagRequired("provider")
	_ = utilAuthorizeURLCmd.MarkFlagRequired("user-id")
	_ = utilAuthorizeURLCmd.MarkFlagRequired("org-id")

	utilCmd.AddCommand(utilProvidersCmd)
	utilCmd.AddCommand(utilCachePingCmd)
	utilCmd.AddCommand(utilAuthorizeURLCmd)
	rootCmd.AddCommand(utilCmd)
}
