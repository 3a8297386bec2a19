package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"github.com/jrschumacher/integrationhub/internal/validation"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rr.Body.String())
	}
	return resp
}

func TestWriteIntegrationError(t *testing.T) {
	defer logger.Discard()()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"state mismatch", integration.StateMismatch("notion", errors.New("nonce")), http.StatusBadRequest, "State does not match."},
		{"token exchange", integration.TokenExchangeFailed("hubspot", http.StatusUnauthorized, nil), http.StatusUnauthorized, "Failed to exchange code for token"},
		{"fetch", integration.ItemFetchFailed("notion", http.StatusTooManyRequests, nil), http.StatusTooManyRequests, "Failed to fetch notion items"},
		{"unclassified", errors.New("redis: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteIntegrationError(rr, tt.err)

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			resp := decode(t, rr)
			if resp.Message != tt.message {
				t.Fatalf("message = %q, want %q", resp.Message, tt.message)
			}
			if resp.Error != http.StatusText(tt.status) {
				t.Fatalf("error = %q", resp.Error)
			}
			if strings.Contains(rr.Body.String(), "connection refused") {
				t.Fatalf("internal cause leaked: %s", rr.Body.String())
			}
		})
	}
}

func TestWriteValidationError(t *testing.T) {
	defer logger.Discard()()

	var ve validation.Errors
	ve.Add("user_id", "is required")

	rr := httptest.NewRecorder()
	WriteValidationError(rr, ve)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode(t, rr)
	if len(resp.Details) != 1 || resp.Details[0].Field != "user_id" {
		t.Fatalf("details = %+v", resp.Details)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("content type = %q", rr.Header().Get("Content-Type"))
	}
}

func TestWriteSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteSuccess(rr, map[string]string{"Ping": "Pong"})

	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != `{"Ping":"Pong"}` {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
}
