package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Credentials is the token endpoint response kept verbatim. Only the access
// token is interpreted; every other field is passed back to the caller as-is.
type Credentials struct {
	raw         json.RawMessage
	AccessToken string
}

type tokenFields struct {
	AccessToken string `json:"access_token"`
}

// ParseCredentials decodes a credentials blob. It must be a JSON object.
func ParseCredentials(data []byte) (Credentials, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Credentials{}, fmt.Errorf("credentials must be a JSON object")
	}
	var f tokenFields
	if err := json.Unmarshal(data, &f); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	return Credentials{raw: append(json.RawMessage(nil), data...), AccessToken: f.AccessToken}, nil
}

// IsEmptyCredentials reports whether the blob carries nothing: absent, null or {}.
func IsEmptyCredentials(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return true
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err == nil && len(m) == 0 {
		return true
	}
	return false
}

// Raw returns the original JSON.
func (c Credentials) Raw() json.RawMessage {
	return c.raw
}

// MarshalJSON writes the original blob back unchanged.
func (c Credentials) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}
