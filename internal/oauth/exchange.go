package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrschumacher/integrationhub/internal/auth"
	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"golang.org/x/oauth2"
)

const maxTokenResponseBytes = 1 << 20

// exchangeCode posts the authorization code to the token endpoint and returns
// the raw JSON response body.
func (s *Service) exchangeCode(ctx context.Context, code, verifier string) ([]byte, error) {
	params := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {s.cfg.RedirectURI},
	}
	if verifier != "" {
		params.Set("code_verifier", verifier)
	}
	if s.cfg.AuthStyle != oauth2.AuthStyleInHeader {
		params.Set("client_id", s.cfg.ClientID)
		params.Set("client_secret", s.cfg.ClientSecret)
	}

	body, contentType, err := encodeTokenRequest(s.cfg.TokenEncoding, params)
	if err != nil {
		return nil, integration.TokenExchangeFailed(s.cfg.Name, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, body)
	if err != nil {
		return nil, integration.TokenExchangeFailed(s.cfg.Name, 0, fmt.Errorf("build token request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if s.cfg.AuthStyle == oauth2.AuthStyleInHeader {
		req.Header.Set("Authorization", auth.BasicAuthHeader(s.cfg.ClientID, s.cfg.ClientSecret))
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, integration.TokenExchangeFailed(s.cfg.Name, 0, fmt.Errorf("token request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, integration.TokenExchangeFailed(s.cfg.Name, 0, fmt.Errorf("read token response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Token endpoint rejected code exchange", "provider", s.cfg.Name, "status", resp.StatusCode)
		return nil, integration.TokenExchangeFailed(s.cfg.Name, resp.StatusCode, fmt.Errorf("token endpoint returned %d", resp.StatusCode))
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, integration.TokenExchangeFailed(s.cfg.Name, 0, fmt.Errorf("token response is not a JSON object"))
	}
	return trimmed, nil
}

func encodeTokenRequest(enc TokenEncoding, params url.Values) (io.Reader, string, error) {
	switch enc {
	case TokenEncodingJSON:
		m := make(map[string]string, len(params))
		for k := range params {
			m[k] = params.Get(k)
		}
		b, err := json.Marshal(m)
		if err != nil {
			return nil, "", fmt.Errorf("encode token request: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	case TokenEncodingForm, "":
		return strings.NewReader(params.Encode()), "application/x-www-form-urlencoded", nil
	default:
		return nil, "", fmt.Errorf("unknown token encoding %q", enc)
	}
}
