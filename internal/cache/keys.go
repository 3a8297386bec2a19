package cache

import "fmt"

// StateKey addresses the pending CSRF state for one user of one org.
func StateKey(provider, orgID, userID string) string {
	return fmt.Sprintf("%s_state:%s:%s", provider, orgID, userID)
}

// VerifierKey addresses the PKCE code verifier paired with a pending state.
func VerifierKey(provider, orgID, userID string) string {
	return fmt.Sprintf("%s_verifier:%s:%s", provider, orgID, userID)
}

// CredentialsKey addresses the token response waiting to be collected.
func CredentialsKey(provider, orgID, userID string) string {
	return fmt.Sprintf("%s_credentials:%s:%s", provider, orgID, userID)
}
