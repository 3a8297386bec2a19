package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jrschumacher/integrationhub/internal/httputil"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"github.com/jrschumacher/integrationhub/internal/svrlib"
)

const readyTimeout = 2 * time.Second

type HealthRouter struct {
	*svrlib.Router
}

// RegisterRoutes registers the ping and health check routes
func RegisterRoutes(router *svrlib.Router) {
	rt := &HealthRouter{router}
	rt.Mux.HandleFunc("GET "+rt.BaseRoute+"/{$}", rt.RootHandler)
	rt.Mux.HandleFunc("GET "+rt.BaseRoute+"/healthz", rt.HealthzHandler)
	rt.Mux.HandleFunc("GET "+rt.BaseRoute+"/readyz", rt.ReadyzHandler)
}

// RootHandler answers GET / with a fixed ping body
func (rt *HealthRouter) RootHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"Ping": "Pong"})
}

// HealthzHandler responds to /healthz requests for health checks
func (rt *HealthRouter) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

// ReadyzHandler reports ready only while the cache answers a ping
func (rt *HealthRouter) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	if rt.Cache == nil {
		http.Error(w, "cache not configured", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := rt.Cache.Ping(ctx); err != nil {
		logger.Warn("Readiness check failed", "error", err)
		http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}
