// Package testutil provides shared fixtures for package tests
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/creasty/defaults"
	"github.com/jrschumacher/integrationhub/internal/config"
	"github.com/jrschumacher/integrationhub/internal/db"
)

// TestConfig returns a validated default config using the memory cache
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	if err := defaults.Set(cfg); err != nil {
		t.Fatalf("Failed to set config defaults: %v", err)
	}
	cfg.AppEnv = config.EnvTest
	cfg.CacheBackend = config.CacheMemory

	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Test config does not validate: %v", err)
	}
	return cfg
}

// TestDatabase creates an in-memory SQLite database for testing
func TestDatabase(t *testing.T) *db.Service {
	t.Helper()

	dbService, err := db.NewService(":memory:", config.EnvTest)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		if err := dbService.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return dbService
}

// TestServer creates a test HTTP server for handler
func TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
	})

	return server
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// PostForm posts values as a urlencoded form and reads the response
func PostForm(t *testing.T, server *httptest.Server, path string, values url.Values) Response {
	t.Helper()

	resp, err := server.Client().Post(server.URL+path, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return read(t, resp)
}

// Get issues a GET and reads the response
func Get(t *testing.T, server *httptest.Server, path string) Response {
	t.Helper()

	resp, err := server.Client().Get(server.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return read(t, resp)
}

func read(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: string(body)}
}
