package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jrschumacher/integrationhub/internal/db"
	"github.com/jrschumacher/integrationhub/internal/logger"
)

// expires_at is unix milliseconds; NULL never expires.
const sqlSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	cache_key   TEXT PRIMARY KEY,
	cache_value TEXT NOT NULL,
	expires_at  BIGINT
)`

// SQL is a Store kept in a relational table. It works with both SQLite and
// PostgreSQL through the db package.
type SQL struct {
	svc *db.Service
	now func() time.Time
}

// NewSQL creates the cache table if needed.
func NewSQL(ctx context.Context, svc *db.Service) (*SQL, error) {
	return NewSQLWithClock(ctx, svc, time.Now)
}

// NewSQLWithClock is NewSQL with an injectable clock.
func NewSQLWithClock(ctx context.Context, svc *db.Service, now func() time.Time) (*SQL, error) {
	if _, err := svc.DB().ExecContext(ctx, sqlSchema); err != nil {
		return nil, fmt.Errorf("%w: create cache table: %v", ErrUnavailable, err)
	}
	return &SQL{svc: svc, now: now}, nil
}

func (s *SQL) expiry(ttl time.Duration) sql.NullInt64 {
	if ttl <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: s.now().Add(ttl).UnixMilli(), Valid: true}
}

func (s *SQL) live(expiresAt sql.NullInt64) bool {
	return !expiresAt.Valid || s.now().UnixMilli() < expiresAt.Int64
}

func (s *SQL) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	q := s.svc.Rebind(`
		INSERT INTO cache_entries (cache_key, cache_value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET cache_value = excluded.cache_value, expires_at = excluded.expires_at`)
	if _, err := s.svc.DB().ExecContext(ctx, q, key, value, s.expiry(ttl)); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	q := s.svc.Rebind(`SELECT cache_value, expires_at FROM cache_entries WHERE cache_key = ?`)

	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := s.svc.DB().QueryRowContext(ctx, q, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	if !s.live(expiresAt) {
		// Lazily drop the stale row; a failure here only delays cleanup.
		if err := s.Delete(ctx, key); err != nil {
			logger.Warn("Failed to drop expired cache entry", "key", key, "error", err)
		}
		return "", ErrNotFound
	}
	return value, nil
}

// GetDel removes the row and returns its value in one statement.
func (s *SQL) GetDel(ctx context.Context, key string) (string, error) {
	q := s.svc.Rebind(`DELETE FROM cache_entries WHERE cache_key = ? RETURNING cache_value, expires_at`)

	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := s.svc.DB().QueryRowContext(ctx, q, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: getdel %s: %v", ErrUnavailable, key, err)
	}
	if !s.live(expiresAt) {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	q := s.svc.Rebind(`DELETE FROM cache_entries WHERE cache_key = ?`)
	if _, err := s.svc.DB().ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Purge deletes every expired row and reports how many were removed.
func (s *SQL) Purge(ctx context.Context) (int64, error) {
	q := s.svc.Rebind(`DELETE FROM cache_entries WHERE expires_at IS NOT NULL AND expires_at <= ?`)
	res, err := s.svc.DB().ExecContext(ctx, q, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("%w: purge: %v", ErrUnavailable, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// StartJanitor purges expired rows every interval until ctx is done.
func (s *SQL) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.Purge(ctx)
				if err != nil {
					logger.Warn("Cache purge failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("Purged expired cache entries", "count", n)
				}
			}
		}
	}()
}

func (s *SQL) Ping(ctx context.Context) error {
	if err := s.svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.svc.Close()
}
