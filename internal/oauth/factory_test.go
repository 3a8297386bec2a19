package oauth

import (
	"testing"

	"github.com/creasty/defaults"
	"github.com/jrschumacher/integrationhub/internal/cache"
	"github.com/jrschumacher/integrationhub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	require.NoError(t, defaults.Set(cfg))
	cfg.NotionClientID = "notion-id"
	return cfg
}

func TestParseProviderType(t *testing.T) {
	for _, s := range []string{"airtable", "notion", "hubspot", "HubSpot"} {
		_, err := ParseProviderType(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseProviderType("salesforce")
	assert.Error(t, err)
}

func TestProviderConfig(t *testing.T) {
	cfg := testConfig(t)

	notion, err := ProviderConfig(ProviderTypeNotion, cfg)
	require.NoError(t, err)
	assert.Equal(t, TokenEncodingJSON, notion.TokenEncoding)
	assert.Equal(t, oauth2.AuthStyleInHeader, notion.AuthStyle)
	assert.Equal(t, "user", notion.AuthParams["owner"])
	assert.Empty(t, notion.Scopes)
	assert.Equal(t, "notion-id", notion.ClientID)
	assert.Equal(t, "http://localhost:8000/integrations/notion/oauth2callback", notion.RedirectURI)

	hs, err := ProviderConfig(ProviderTypeHubSpot, cfg)
	require.NoError(t, err)
	assert.Equal(t, TokenEncodingForm, hs.TokenEncoding)
	assert.Equal(t, oauth2.AuthStyleInParams, hs.AuthStyle)
	assert.Equal(t, []string{"crm.objects.contacts.read"}, hs.Scopes)

	at, err := ProviderConfig(ProviderTypeAirtable, cfg)
	require.NoError(t, err)
	assert.True(t, at.PKCE)
	assert.Len(t, at.Scopes, 6)
	assert.Equal(t, cfg.StateTTL, at.StateTTL)
}

func TestRegistry(t *testing.T) {
	cfg := testConfig(t)
	reg, err := NewRegistry(cfg, cache.NewMemory(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"airtable", "hubspot", "notion"}, reg.Names())

	p, ok := reg.Get("notion")
	require.True(t, ok)
	assert.Equal(t, "notion", p.Name())

	_, ok = reg.Get("dropbox")
	assert.False(t, ok)
}
