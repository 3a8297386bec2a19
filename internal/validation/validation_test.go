package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestIdentityValidation(t *testing.T) {
	tests := []struct {
		name   string
		in     IdentityValidation
		fields []string
	}{
		{"valid", IdentityValidation{UserID: "u1", OrgID: "o1"}, nil},
		{"both missing", IdentityValidation{}, []string{"user_id", "org_id"}},
		{"blank user", IdentityValidation{UserID: "  ", OrgID: "o1"}, []string{"user_id"}},
		{"separator in org", IdentityValidation{UserID: "u1", OrgID: "a:b"}, []string{"org_id"}},
		{"too long", IdentityValidation{UserID: strings.Repeat("x", MaxIDLength+1), OrgID: "o1"}, []string{"user_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve Errors
			if !errors.As(err, &ve) {
				t.Fatalf("expected Errors, got %v", err)
			}
			if len(ve) != len(tt.fields) {
				t.Fatalf("got %d errors (%v), want %d", len(ve), ve, len(tt.fields))
			}
			for i, f := range tt.fields {
				if ve[i].Field != f {
					t.Errorf("error %d field = %q, want %q", i, ve[i].Field, f)
				}
			}
		})
	}
}

func TestCredentialsValidation(t *testing.T) {
	cases := map[string]bool{
		`{"access_token":"x"}`:                         true,
		``:                                             false,
		`not json`:                                     false,
		`["a"]`:                                        false,
		`"tok"`:                                        false,
		`{"pad":"` + strings.Repeat("a", MaxCredentialsLength) + `"}`: false,
	}
	for in, ok := range cases {
		cv := CredentialsValidation{Credentials: in}
		if err := cv.Validate(); (err == nil) != ok {
			t.Errorf("Validate(%.20q) error = %v, want ok=%v", in, err, ok)
		}
	}
}

func TestErrorsMessage(t *testing.T) {
	var ve Errors
	if ve.Error() != "validation failed" {
		t.Fatalf("empty message = %q", ve.Error())
	}
	ve.Add("user_id", "is required")
	ve.Add("", "bad request")
	if got := ve.Error(); got != "user_id: is required; bad request" {
		t.Fatalf("message = %q", got)
	}
}
