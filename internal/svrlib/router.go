// Package svrlib provides common server routing utilities
package svrlib

import (
	"net/http"

	"github.com/jrschumacher/integrationhub/internal/cache"
	"github.com/jrschumacher/integrationhub/internal/config"
	"github.com/jrschumacher/integrationhub/internal/oauth"
)

// Services are the long-lived dependencies shared by handlers
type Services struct {
	Cache     cache.Store
	Providers *oauth.Registry
}

// Router wraps HTTP routing functionality with configuration
type Router struct {
	Config    *config.Config
	Mux       *http.ServeMux
	BaseRoute string
	*Services
}

// NewRouter creates a new Router with the given mux, base route, configuration and services
func NewRouter(mux *http.ServeMux, baseRoute string, cfg *config.Config, svc *Services) *Router {
	if svc == nil {
		svc = &Services{}
	}
	return &Router{cfg, mux, baseRoute, svc}
}
