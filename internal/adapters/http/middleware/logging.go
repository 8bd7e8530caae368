package middleware

import (
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
)

const redacted = "[REDACTED]"

// credentialHeaders are logged as [REDACTED]. Keys are lowercase.
var credentialHeaders = map[string]struct{}{
	"authorization":              {},
	"proxy-authorization":        {},
	"x-serverless-authorization": {},
	"x-goog-iap-jwt-assertion":   {},
	"x-api-key":                  {},
	"cookie":                     {},
}

// Logging returns middleware that logs function invocations. It derives a
// child logger carrying the request and correlation IDs and stores it with
// logging.WithLogger, so the dispatcher and actions log with the same
// fields.
//
// Completion entries carry the matched route, status, response size, and
// duration. Client errors log at warn and server errors at error. Request
// headers are logged at debug with credentials redacted.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			child := logger.With(
				slog.String("request_id", requestctx.RequestID(ctx)),
				slog.String("correlation_id", requestctx.CorrelationID(ctx)),
			)
			ctx = logging.WithLogger(ctx, child)

			child.InfoContext(ctx, "invocation started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if child.Enabled(ctx, slog.LevelDebug) {
				child.DebugContext(ctx, "invocation headers", headerGroup(r.Header))
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := statusOf(ww)
			child.Log(ctx, completionLevel(status), "invocation completed",
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func completionLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// headerGroup renders h as a sorted "headers" group. Multi-value headers are
// joined with a comma.
func headerGroup(h http.Header) slog.Attr {
	attrs := make([]any, 0, len(h))
	for _, key := range slices.Sorted(maps.Keys(h)) {
		value := strings.Join(h[key], ",")
		if _, ok := credentialHeaders[strings.ToLower(key)]; ok {
			value = redacted
		}
		attrs = append(attrs, slog.String(key, value))
	}
	return slog.Group("headers", attrs...)
}
