package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
)

const (
	headerRequestID  = "X-Request-ID"
	headerCloudTrace = "X-Cloud-Trace-Context"

	maxRequestIDLen = 128
)

// RequestID returns middleware that assigns each invocation a request ID,
// stores it with requestctx and echoes it as X-Request-ID.
//
// The ID is the first usable value of: the caller's X-Request-ID, the trace
// ID from the platform's X-Cloud-Trace-Context header ("TRACE/SPAN;o=1"),
// or a fresh UUID. Values longer than 128 bytes or holding control
// characters are ignored.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestIDFrom(r.Header)
			w.Header().Set(headerRequestID, id)
			next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), id)))
		})
	}
}

func requestIDFrom(h http.Header) string {
	if id := h.Get(headerRequestID); usableID(id) {
		return id
	}
	if trace, _, _ := strings.Cut(h.Get(headerCloudTrace), "/"); usableID(trace) {
		return trace
	}
	return uuid.NewString()
}

func usableID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	return !strings.ContainsFunc(id, func(r rune) bool {
		return r < 0x20 || r == 0x7f
	})
}
