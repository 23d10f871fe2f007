package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern resolves the chi route template for a request so metrics are
// labeled per endpoint instead of per concrete URL.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}
