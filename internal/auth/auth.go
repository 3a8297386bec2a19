// Package auth holds the OAuth2 building blocks shared by every provider:
// CSRF state, PKCE and client authentication.
package auth

import (
	"encoding/base64"
	"net/url"

	"golang.org/x/oauth2"
)

// PKCE utilities
func GeneratePKCE() (codeVerifier, codeChallenge string) {
	codeVerifier = oauth2.GenerateVerifier()
	codeChallenge = oauth2.S256ChallengeFromVerifier(codeVerifier)
	return
}

// BasicAuthHeader returns the client_secret_basic Authorization value. Both
// parts are form-escaped first, as RFC 6749 section 2.3.1 requires.
func BasicAuthHeader(clientID, clientSecret string) string {
	creds := url.QueryEscape(clientID) + ":" + url.QueryEscape(clientSecret)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}
