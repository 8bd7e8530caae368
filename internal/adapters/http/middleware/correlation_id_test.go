package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
)

func TestCorrelationID_Resolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{name: "header", target: "/", header: "corr-h", want: "corr-h"},
		{name: "query", target: "/?correlation_id=corr-q", want: "corr-q"},
		{name: "header wins over query", target: "/?correlation_id=corr-q", header: "corr-h", want: "corr-h"},
		{name: "request id fallback", target: "/", want: "req-fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen string
			handler := middleware.RequestID()(
				middleware.CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
					seen = requestctx.CorrelationID(r.Context())
				})),
			)

			req := httptest.NewRequest(http.MethodPost, tt.target, http.NoBody)
			req.Header.Set("X-Request-ID", "req-fallback")
			if tt.header != "" {
				req.Header.Set("X-Correlation-ID", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if seen != tt.want {
				t.Errorf("context correlation ID = %q, want %q", seen, tt.want)
			}
			if echoed := rec.Header().Get("X-Correlation-ID"); echoed != tt.want {
				t.Errorf("X-Correlation-ID response header = %q, want %q", echoed, tt.want)
			}
		})
	}
}

func TestCorrelationID_EmptyWithoutRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := middleware.CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestctx.CorrelationID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", http.NoBody))

	if seen != "" {
		t.Errorf("correlation ID = %q, want empty when neither source nor request ID is set", seen)
	}
}
