package integration

import (
	"encoding/json"
	"testing"
)

func TestParseCredentials(t *testing.T) {
	raw := []byte(`{"access_token":"tok","token_type":"bearer","workspace_id":"w1"}`)

	c, err := ParseCredentials(raw)
	if err != nil {
		t.Fatalf("ParseCredentials error: %v", err)
	}
	if c.AccessToken != "tok" {
		t.Fatalf("AccessToken = %q", c.AccessToken)
	}

	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != string(raw) {
		t.Fatalf("blob not preserved: %s", out)
	}
}

func TestParseCredentialsRejectsNonObjects(t *testing.T) {
	for _, in := range []string{``, `[]`, `"tok"`, `{bad`} {
		if _, err := ParseCredentials([]byte(in)); err == nil {
			t.Errorf("ParseCredentials(%q) should fail", in)
		}
	}
}

func TestIsEmptyCredentials(t *testing.T) {
	cases := map[string]bool{
		``:                     true,
		`  `:                   true,
		`null`:                 true,
		`{}`:                   true,
		` { } `:                true,
		`{"access_token":"x"}`: false,
	}
	for in, want := range cases {
		if got := IsEmptyCredentials([]byte(in)); got != want {
			t.Errorf("IsEmptyCredentials(%q) = %v, want %v", in, got, want)
		}
	}
}
