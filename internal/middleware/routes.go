package middleware

import (
	"net/http"
)

// RouteGroup represents a group of routes with common middleware
type RouteGroup struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewRouteGroup creates a new route group with optional middleware
func NewRouteGroup(mux *http.ServeMux, middlewares ...Middleware) *RouteGroup {
	return &RouteGroup{
		mux:         mux,
		middlewares: middlewares,
	}
}

// Handle registers a handler with the group's middleware stack
func (rg *RouteGroup) Handle(pattern string, handler http.Handler) {
	rg.mux.Handle(pattern, NewChain(rg.middlewares...).Then(handler))
}

// HandleFunc registers a handler function with the group's middleware stack
func (rg *RouteGroup) HandleFunc(pattern string, handlerFunc http.HandlerFunc) {
	rg.Handle(pattern, handlerFunc)
}

// Group creates a sub-group with additional middleware
func (rg *RouteGroup) Group(middlewares ...Middleware) *RouteGroup {
	all := make([]Middleware, 0, len(rg.middlewares)+len(middlewares))
	all = append(all, rg.middlewares...)
	all = append(all, middlewares...)

	return &RouteGroup{
		mux:         rg.mux,
		middlewares: all,
	}
}

// FormGroup is for POST endpoints that read a urlencoded or multipart form
func FormGroup(mux *http.ServeMux, maxBody int64) *RouteGroup {
	return NewRouteGroup(mux, LimitBody(maxBody))
}

// RawGroup creates a route group with no middleware
func RawGroup(mux *http.ServeMux) *RouteGroup {
	return NewRouteGroup(mux)
}
