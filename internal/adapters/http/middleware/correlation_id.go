package middleware

import (
	"net/http"

	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
)

// CorrelationID returns middleware that extracts or derives the correlation
// ID of each invocation. The X-Correlation-ID header wins, then the
// correlation_id query parameter, then the request ID. The ID is stored with
// requestctx and echoed as a response header. A correlation_id carried only
// in the JSON body is resolved later by the function request itself.
//
// This middleware must run after RequestID so that the fallback value is
// available.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(function.HeaderCorrelation)
			if id == "" {
				id = r.URL.Query().Get(function.ParamCorrelationID)
			}
			if id == "" {
				id = requestctx.RequestID(r.Context())
			}
			ctx := requestctx.WithCorrelationID(r.Context(), id)
			w.Header().Set(function.HeaderCorrelation, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
