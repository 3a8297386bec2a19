// Package server wires the HTTP routes and runs the listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrschumacher/integrationhub/internal/cache"
	"github.com/jrschumacher/integrationhub/internal/config"
	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"github.com/jrschumacher/integrationhub/internal/middleware"
	"github.com/jrschumacher/integrationhub/internal/oauth"
	"github.com/jrschumacher/integrationhub/internal/svrlib"
	health "github.com/jrschumacher/integrationhub/server/health-handlers"
	integrations "github.com/jrschumacher/integrationhub/server/integration-handlers"
)

const shutdownTimeout = 10 * time.Second

// NewHandler builds the full route table behind the standard middleware.
func NewHandler(cfg *config.Config, svc *svrlib.Services) http.Handler {
	mux := http.NewServeMux()

	health.RegisterRoutes(svrlib.NewRouter(mux, "", cfg, svc))
	integrations.RegisterRoutes(svrlib.NewRouter(mux, "", cfg, svc))

	return middleware.Standard(cfg).Then(mux)
}

// Start opens the cache, builds the providers and serves until SIGINT or
// SIGTERM, then drains in-flight requests.
func Start(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := cache.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close cache", "error", err)
		}
	}()

	registry, err := oauth.NewRegistry(cfg, store, integration.NewHTTPClient(cfg.HTTPTimeout))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewHandler(cfg, &svrlib.Services{Cache: store, Providers: registry}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", srv.Addr, "cache", cfg.CacheBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
