// Package cache holds short-lived OAuth artifacts (state, PKCE verifiers and
// exchanged credentials) behind a small key/value interface with per-key TTLs.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when the key is absent or expired.
	ErrNotFound = errors.New("cache: key not found")
	// ErrUnavailable wraps any backend failure.
	ErrUnavailable = errors.New("cache: backend unavailable")
)

// Store is a string key/value store with optional expiry.
//
// A ttl of zero stores the value without expiry. Set overwrites the value and
// the expiry atomically.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type getDeleter interface {
	GetDel(ctx context.Context, key string) (string, error)
}

// GetDel reads key and removes it. Backends that can do both in one step are
// used atomically; otherwise it falls back to Get followed by Delete. A
// missing key yields ErrNotFound.
func GetDel(ctx context.Context, s Store, key string) (string, error) {
	if gd, ok := s.(getDeleter); ok {
		return gd.GetDel(ctx, key)
	}
	v, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if err := s.Delete(ctx, key); err != nil {
		return "", err
	}
	return v, nil
}
