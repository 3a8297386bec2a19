package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// runStoreSuite exercises behaviour every backend must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T, clock *fakeClock) Store) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t, newFakeClock())
		if err := s.Set(ctx, "k", "v", time.Minute); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		got, err := s.Get(ctx, "k")
		if err != nil || got != "v" {
			t.Fatalf("Get = %q, %v; want v, nil", got, err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t, newFakeClock())
		if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("overwrite replaces value and ttl", func(t *testing.T) {
		clock := newFakeClock()
		s := newStore(t, clock)
		_ = s.Set(ctx, "k", "old", time.Second)
		_ = s.Set(ctx, "k", "new", time.Hour)
		clock.Advance(time.Minute)
		got, err := s.Get(ctx, "k")
		if err != nil || got != "new" {
			t.Fatalf("Get = %q, %v; want new, nil", got, err)
		}
	})

	t.Run("expiry", func(t *testing.T) {
		clock := newFakeClock()
		s := newStore(t, clock)
		_ = s.Set(ctx, "k", "v", 600*time.Second)

		clock.Advance(599 * time.Second)
		if _, err := s.Get(ctx, "k"); err != nil {
			t.Fatalf("value should still be live: %v", err)
		}
		clock.Advance(time.Second)
		if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after ttl, got %v", err)
		}
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		clock := newFakeClock()
		s := newStore(t, clock)
		_ = s.Set(ctx, "k", "v", 0)
		clock.Advance(365 * 24 * time.Hour)
		if _, err := s.Get(ctx, "k"); err != nil {
			t.Fatalf("expected value without expiry, got %v", err)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t, newFakeClock())
		_ = s.Set(ctx, "k", "v", time.Minute)
		if err := s.Delete(ctx, "k"); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		if err := s.Delete(ctx, "k"); err != nil {
			t.Fatalf("second Delete error: %v", err)
		}
		if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("getdel reads once", func(t *testing.T) {
		s := newStore(t, newFakeClock())
		_ = s.Set(ctx, "k", "v", time.Minute)
		got, err := GetDel(ctx, s, "k")
		if err != nil || got != "v" {
			t.Fatalf("GetDel = %q, %v; want v, nil", got, err)
		}
		if _, err := GetDel(ctx, s, "k"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second GetDel should miss, got %v", err)
		}
	})

	t.Run("getdel on expired entry", func(t *testing.T) {
		clock := newFakeClock()
		s := newStore(t, clock)
		_ = s.Set(ctx, "k", "v", time.Second)
		clock.Advance(2 * time.Second)
		if _, err := GetDel(ctx, s, "k"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t, newFakeClock())
		if err := s.Ping(ctx); err != nil {
			t.Fatalf("Ping error: %v", err)
		}
	})
}

func TestKeys(t *testing.T) {
	if got := StateKey("notion", "o1", "u1"); got != "notion_state:o1:u1" {
		t.Errorf("StateKey = %q", got)
	}
	if got := CredentialsKey("hubspot", "o1", "u1"); got != "hubspot_credentials:o1:u1" {
		t.Errorf("CredentialsKey = %q", got)
	}
	if got := VerifierKey("airtable", "o1", "u1"); got != "airtable_verifier:o1:u1" {
		t.Errorf("VerifierKey = %q", got)
	}
}

// plainStore hides GetDel so the fallback path is covered.
type plainStore struct{ Store }

func TestGetDelFallback(t *testing.T) {
	ctx := context.Background()
	s := plainStore{NewMemory()}
	_ = s.Set(ctx, "k", "v", time.Minute)

	got, err := GetDel(ctx, s, "k")
	if err != nil || got != "v" {
		t.Fatalf("GetDel = %q, %v", got, err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("fallback should delete the key, got %v", err)
	}
}
