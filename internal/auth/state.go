package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// OAuthState is the CSRF payload carried through the provider's consent
// screen and echoed back on the callback.
type OAuthState struct {
	Nonce  string `json:"state"`
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
}

// GenerateStateToken generates a random string suitable for use as an OAuth2 state parameter.
func GenerateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewState builds a state with a fresh nonce.
func NewState(userID, orgID string) (OAuthState, error) {
	nonce, err := GenerateStateToken()
	if err != nil {
		return OAuthState{}, err
	}
	return OAuthState{Nonce: nonce, UserID: userID, OrgID: orgID}, nil
}

// JSON is the unencoded form kept in the cache.
func (s OAuthState) JSON() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Encode returns the URL form: base64url of the JSON.
func (s OAuthState) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// DecodeState parses the URL form. Padded and unpadded input are accepted.
func DecodeState(encoded string) (OAuthState, error) {
	if encoded == "" {
		return OAuthState{}, ErrMissingState
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return OAuthState{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return ParseState(raw)
}

// ParseState parses the unencoded JSON form.
func ParseState(raw []byte) (OAuthState, error) {
	var s OAuthState
	if err := json.Unmarshal(raw, &s); err != nil {
		return OAuthState{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if s.Nonce == "" {
		return OAuthState{}, ErrMissingState
	}
	return s, nil
}

// Matches compares nonces in constant time.
func (s OAuthState) Matches(other OAuthState) bool {
	return subtle.ConstantTimeCompare([]byte(s.Nonce), []byte(other.Nonce)) == 1
}
