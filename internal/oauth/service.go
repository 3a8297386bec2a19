package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrschumacher/integrationhub/internal/auth"
	"github.com/jrschumacher/integrationhub/internal/cache"
	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// Service runs the authorization-code flow for one provider
type Service struct {
	cfg    Config
	oauth  *oauth2.Config
	store  cache.Store
	http   *http.Client
	lister ItemLister
}

var _ Provider = (*Service)(nil)

// NewService creates a flow controller for cfg. hc is used for the token
// exchange; listing uses whatever client the lister was built with.
func NewService(cfg Config, store cache.Store, hc *http.Client, lister ItemLister) *Service {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Service{
		cfg:    cfg,
		oauth:  cfg.oauth2Config(),
		store:  store,
		http:   hc,
		lister: lister,
	}
}

// Name returns the provider name
func (s *Service) Name() string {
	return s.cfg.Name
}

// Config returns the provider settings
func (s *Service) Config() Config {
	return s.cfg
}

// Authorize records a fresh state (and PKCE verifier when enabled) and
// returns the provider's consent URL. No provider call is made.
func (s *Service) Authorize(ctx context.Context, userID, orgID string) (string, error) {
	state, err := auth.NewState(userID, orgID)
	if err != nil {
		return "", integration.Infrastructure(s.cfg.Name, err)
	}
	stored, err := state.JSON()
	if err != nil {
		return "", integration.Infrastructure(s.cfg.Name, err)
	}
	encoded, err := state.Encode()
	if err != nil {
		return "", integration.Infrastructure(s.cfg.Name, err)
	}

	if err := s.store.Set(ctx, cache.StateKey(s.cfg.Name, orgID, userID), stored, s.cfg.StateTTL); err != nil {
		return "", integration.Infrastructure(s.cfg.Name, fmt.Errorf("store state: %w", err))
	}

	opts := s.cfg.authParamOptions()
	if s.cfg.PKCE {
		verifier, challenge := auth.GeneratePKCE()
		if err := s.store.Set(ctx, cache.VerifierKey(s.cfg.Name, orgID, userID), verifier, s.cfg.StateTTL); err != nil {
			return "", integration.Infrastructure(s.cfg.Name, fmt.Errorf("store verifier: %w", err))
		}
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", challenge),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"))
	}

	logger.Debug("Issued authorization URL", "provider", s.cfg.Name, "user_id", userID, "org_id", orgID)
	return s.oauth.AuthCodeURL(encoded, opts...), nil
}

// HandleCallback validates the callback query and, on success, stores the
// token response under the credentials key. The state entry is consumed
// whether or not the exchange succeeds.
func (s *Service) HandleCallback(ctx context.Context, query url.Values) error {
	if e := query.Get("error"); e != "" {
		msg := query.Get("error_description")
		if msg == "" {
			msg = e
		}
		logger.Info("Provider denied authorization", "provider", s.cfg.Name, "error", e)
		return integration.ProviderDenied(s.cfg.Name, msg)
	}

	echoed, err := auth.DecodeState(query.Get("state"))
	if err != nil {
		return integration.StateMismatch(s.cfg.Name, err)
	}
	userID, orgID := echoed.UserID, echoed.OrgID
	stateKey := cache.StateKey(s.cfg.Name, orgID, userID)

	raw, err := s.store.Get(ctx, stateKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return integration.StateMismatch(s.cfg.Name, errors.New("no pending state"))
		}
		return integration.Infrastructure(s.cfg.Name, fmt.Errorf("load state: %w", err))
	}
	saved, err := auth.ParseState([]byte(raw))
	if err != nil {
		return integration.StateMismatch(s.cfg.Name, err)
	}
	if !saved.Matches(echoed) {
		logger.Warn("OAuth state mismatch", "provider", s.cfg.Name, "user_id", userID, "org_id", orgID)
		return integration.StateMismatch(s.cfg.Name, errors.New("nonce differs"))
	}

	code := query.Get("code")
	if code == "" {
		return integration.InvalidRequest(s.cfg.Name, "Missing authorization code.")
	}

	var verifier string
	verifierKey := cache.VerifierKey(s.cfg.Name, orgID, userID)
	if s.cfg.PKCE {
		verifier, err = s.store.Get(ctx, verifierKey)
		if errors.Is(err, cache.ErrNotFound) {
			return integration.StateMismatch(s.cfg.Name, errors.New("no pending code verifier"))
		}
		if err != nil {
			return integration.Infrastructure(s.cfg.Name, fmt.Errorf("load verifier: %w", err))
		}
	}

	// The exchange and the state cleanup run side by side; both finish
	// before the outcome is decided.
	var (
		g           errgroup.Group
		token       []byte
		exchangeErr error
	)
	g.Go(func() error {
		token, exchangeErr = s.exchangeCode(ctx, code, verifier)
		return nil
	})
	g.Go(func() error {
		if err := s.store.Delete(ctx, stateKey); err != nil {
			return err
		}
		if s.cfg.PKCE {
			return s.store.Delete(ctx, verifierKey)
		}
		return nil
	})
	cleanupErr := g.Wait()

	if exchangeErr != nil {
		return exchangeErr
	}
	if cleanupErr != nil {
		return integration.Infrastructure(s.cfg.Name, fmt.Errorf("delete state: %w", cleanupErr))
	}

	if err := s.store.Set(ctx, cache.CredentialsKey(s.cfg.Name, orgID, userID), string(token), s.cfg.CredentialsTTL); err != nil {
		return integration.Infrastructure(s.cfg.Name, fmt.Errorf("store credentials: %w", err))
	}

	logger.Info("Stored provider credentials", "provider", s.cfg.Name, "user_id", userID, "org_id", orgID)
	return nil
}

// GetCredentials returns the stored credentials and removes them. A second
// call for the same user and org reports CredentialsNotFound.
func (s *Service) GetCredentials(ctx context.Context, userID, orgID string) (integration.Credentials, error) {
	raw, err := cache.GetDel(ctx, s.store, cache.CredentialsKey(s.cfg.Name, orgID, userID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return integration.Credentials{}, integration.CredentialsNotFound(s.cfg.Name)
		}
		return integration.Credentials{}, integration.Infrastructure(s.cfg.Name, fmt.Errorf("load credentials: %w", err))
	}
	if integration.IsEmptyCredentials([]byte(raw)) {
		return integration.Credentials{}, integration.CredentialsNotFound(s.cfg.Name)
	}

	creds, err := integration.ParseCredentials([]byte(raw))
	if err != nil {
		return integration.Credentials{}, integration.Infrastructure(s.cfg.Name, err)
	}
	return creds, nil
}

// ListItems lists every object visible to creds. Either the full sequence
// or an error is returned.
func (s *Service) ListItems(ctx context.Context, creds integration.Credentials) ([]integration.Item, error) {
	if creds.AccessToken == "" {
		return nil, integration.InvalidRequest(s.cfg.Name, "Credentials are missing access_token.")
	}

	items, err := s.lister.ListItems(ctx, creds.AccessToken)
	if err != nil {
		return nil, integration.FetchError(s.cfg.Name, err)
	}

	if items == nil {
		items = []integration.Item{}
	}
	logger.Debug("Listed integration items", "provider", s.cfg.Name, "count", len(items))
	return items, nil
}
