// Package http is the inbound HTTP adapter: the router that exposes a function
// dispatcher and its health probes, and the server that hosts it.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
)

// Codes for requests that never reach the dispatcher.
const (
	CodeRouteNotFound    = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// NewRouter routes invocations to dispatcher and probes to healthHandler,
// wrapping both in middlewares, outermost first.
//
//	POST /               command from the "cmd" body field or query parameter
//	POST /{cmd}          command from the path
//	GET  /health/live
//	GET  /health/ready
//
// Unmatched paths and methods are answered with a composed error description
// so callers always receive the same JSON shape.
func NewRouter(
	dispatcher http.Handler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeRouteError(w, http.StatusNotFound, CodeRouteNotFound, "no route for "+req.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeRouteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed,
			req.Method+" is not allowed on "+req.URL.Path)
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Post("/", dispatcher.ServeHTTP)
	r.Post("/{"+function.ParamCommand+"}", dispatcher.ServeHTTP)

	return r
}

func writeRouteError(w http.ResponseWriter, status int, code, message string) {
	_ = function.ComposeError(domain.ErrorForStatus(status, code, message)).Write(w)
}
