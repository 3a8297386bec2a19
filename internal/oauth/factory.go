package oauth

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jrschumacher/integrationhub/internal/cache"
	"github.com/jrschumacher/integrationhub/internal/config"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"github.com/jrschumacher/integrationhub/internal/providers/airtable"
	"github.com/jrschumacher/integrationhub/internal/providers/hubspot"
	"github.com/jrschumacher/integrationhub/internal/providers/notion"
	"golang.org/x/oauth2"
)

// ProviderType represents the supported integrations
type ProviderType string

const (
	ProviderTypeAirtable ProviderType = airtable.Name
	ProviderTypeNotion   ProviderType = notion.Name
	ProviderTypeHubSpot  ProviderType = hubspot.Name
)

// ProviderTypes lists every supported provider in route order.
func ProviderTypes() []ProviderType {
	return []ProviderType{ProviderTypeAirtable, ProviderTypeNotion, ProviderTypeHubSpot}
}

// ParseProviderType converts a string to ProviderType with validation
func ParseProviderType(s string) (ProviderType, error) {
	switch ProviderType(strings.ToLower(s)) {
	case ProviderTypeAirtable:
		return ProviderTypeAirtable, nil
	case ProviderTypeNotion:
		return ProviderTypeNotion, nil
	case ProviderTypeHubSpot:
		return ProviderTypeHubSpot, nil
	default:
		return "", fmt.Errorf("invalid provider type: %s (valid options: airtable, notion, hubspot)", s)
	}
}

// ProviderConfig returns the flow settings of providerType with the
// application credentials taken from cfg.
func ProviderConfig(providerType ProviderType, cfg *config.Config) (Config, error) {
	app := cfg.Provider(string(providerType))
	c := Config{
		Name:           string(providerType),
		ClientID:       app.ClientID,
		ClientSecret:   app.ClientSecret,
		RedirectURI:    app.RedirectURI,
		StateTTL:       cfg.StateTTL,
		CredentialsTTL: cfg.CredentialsTTL,
	}

	switch providerType {
	case ProviderTypeAirtable:
		c.AuthURL = airtable.AuthURL
		c.TokenURL = airtable.TokenURL
		c.Scopes = airtable.Scopes
		c.TokenEncoding = TokenEncodingForm
		c.AuthStyle = oauth2.AuthStyleInHeader
		c.PKCE = true
	case ProviderTypeNotion:
		c.AuthURL = notion.AuthURL
		c.TokenURL = notion.TokenURL
		c.AuthParams = notion.AuthParams
		c.TokenEncoding = TokenEncodingJSON
		c.AuthStyle = oauth2.AuthStyleInHeader
	case ProviderTypeHubSpot:
		c.AuthURL = hubspot.AuthURL
		c.TokenURL = hubspot.TokenURL
		c.Scopes = hubspot.Scopes
		c.TokenEncoding = TokenEncodingForm
		c.AuthStyle = oauth2.AuthStyleInParams
	default:
		return Config{}, fmt.Errorf("unknown OAuth provider type: %s", providerType)
	}
	return c, nil
}

// NewProvider creates the flow controller for providerType
func NewProvider(providerType ProviderType, cfg *config.Config, store cache.Store, hc *http.Client) (*Service, error) {
	pc, err := ProviderConfig(providerType, cfg)
	if err != nil {
		return nil, err
	}

	var lister ItemLister
	switch providerType {
	case ProviderTypeAirtable:
		lister = airtable.NewLister(hc)
	case ProviderTypeNotion:
		lister = notion.NewLister(hc)
	case ProviderTypeHubSpot:
		lister = hubspot.NewLister(hc)
	}

	if pc.ClientID == "" {
		logger.Warn("OAuth client id is not configured", "provider", pc.Name)
	}
	return NewService(pc, store, hc, lister), nil
}

// Registry resolves provider names to flow controllers
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a controller for every supported provider.
func NewRegistry(cfg *config.Config, store cache.Store, hc *http.Client) (*Registry, error) {
	r := &Registry{providers: make(map[string]Provider)}
	for _, pt := range ProviderTypes() {
		p, err := NewProvider(pt, cfg, store, hc)
		if err != nil {
			return nil, fmt.Errorf("failed to create OAuth provider %s: %w", pt, err)
		}
		r.Register(p)
	}
	logger.Info("OAuth providers initialized", "providers", strings.Join(r.Names(), ","))
	return r, nil
}

// Register adds or replaces p under p.Name().
func (r *Registry) Register(p Provider) {
	if r.providers == nil {
		r.providers = make(map[string]Provider)
	}
	r.providers[p.Name()] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[strings.ToLower(name)]
	return p, ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
