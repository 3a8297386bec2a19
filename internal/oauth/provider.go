// Package oauth runs the authorization-code flow for every integration
// provider: consent URL minting, the callback exchange, one-time credential
// hand-off and item listing.
package oauth

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/jrschumacher/integrationhub/internal/integration"
	"golang.org/x/oauth2"
)

// TokenEncoding is how the token request body is encoded.
type TokenEncoding string

const (
	TokenEncodingForm TokenEncoding = "form"
	TokenEncodingJSON TokenEncoding = "json"
)

// ItemLister lists a connected account's objects with an access token.
type ItemLister interface {
	ListItems(ctx context.Context, accessToken string) ([]integration.Item, error)
}

// Provider defines the flow operations exposed to the HTTP layer
type Provider interface {
	// Authorize mints a consent URL for the user and records the pending state
	Authorize(ctx context.Context, userID, orgID string) (string, error)

	// HandleCallback validates the echoed state and exchanges the code
	HandleCallback(ctx context.Context, query url.Values) error

	// GetCredentials hands out the exchanged credentials once
	GetCredentials(ctx context.Context, userID, orgID string) (integration.Credentials, error)

	// ListItems lists the account's objects using the credentials' access token
	ListItems(ctx context.Context, creds integration.Credentials) ([]integration.Item, error)

	// Name returns the provider name used in routes and cache keys
	Name() string
}

// Config holds the OAuth application settings of one provider
type Config struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	Scopes       []string
	// AuthParams are extra query parameters on the consent URL.
	AuthParams map[string]string
	// TokenEncoding selects a form or JSON token request body.
	TokenEncoding TokenEncoding
	// AuthStyle is oauth2.AuthStyleInHeader for HTTP Basic client
	// authentication; any other value sends the credentials in the body.
	AuthStyle      oauth2.AuthStyle
	PKCE           bool
	StateTTL       time.Duration
	CredentialsTTL time.Duration
}

func (c Config) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       c.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.AuthURL,
			TokenURL:  c.TokenURL,
			AuthStyle: c.AuthStyle,
		},
	}
}

func (c Config) authParamOptions() []oauth2.AuthCodeOption {
	keys := make([]string, 0, len(c.AuthParams))
	for k := range c.AuthParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]oauth2.AuthCodeOption, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, oauth2.SetAuthURLParam(k, c.AuthParams[k]))
	}
	return opts
}
