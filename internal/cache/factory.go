package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jrschumacher/integrationhub/internal/config"
	"github.com/jrschumacher/integrationhub/internal/db"
	"github.com/jrschumacher/integrationhub/internal/logger"
)

const janitorInterval = time.Minute

// New opens the backend selected by cfg.CacheBackend. The SQL janitor runs
// until ctx is cancelled.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		return NewRedis(ctx, cfg.RedisURL, cfg.RedisPassword)

	case config.CacheSQL:
		svc, err := db.NewService(cfg.DatabaseURL, cfg.AppEnv)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		store, err := NewSQL(ctx, svc)
		if err != nil {
			_ = svc.Close()
			return nil, err
		}
		store.StartJanitor(ctx, janitorInterval)
		return store, nil

	case config.CacheMemory:
		logger.Warn("Using in-memory cache; state is lost on restart and not shared between replicas")
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
