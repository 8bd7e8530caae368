package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
)

// serveRequestID runs the RequestID middleware and returns the ID the handler
// saw together with the echoed response header.
func serveRequestID(t *testing.T, headers map[string]string) (string, string) {
	t.Helper()

	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestctx.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return seen, rec.Header().Get("X-Request-ID")
}

func TestRequestID_Sources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "caller header",
			headers: map[string]string{"X-Request-ID": "req-123"},
			want:    "req-123",
		},
		{
			name: "caller header wins over platform trace",
			headers: map[string]string{
				"X-Request-ID":          "req-123",
				"X-Cloud-Trace-Context": "105445aa7843bc8bf206b12000100000/1;o=1",
			},
			want: "req-123",
		},
		{
			name:    "platform trace id",
			headers: map[string]string{"X-Cloud-Trace-Context": "105445aa7843bc8bf206b12000100000/1;o=1"},
			want:    "105445aa7843bc8bf206b12000100000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			seen, echoed := serveRequestID(t, tt.headers)
			if seen != tt.want {
				t.Errorf("context request ID = %q, want %q", seen, tt.want)
			}
			if echoed != tt.want {
				t.Errorf("X-Request-ID response header = %q, want %q", echoed, tt.want)
			}
		})
	}
}

func TestRequestID_GeneratesUUIDForUnusableInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"no headers", nil},
		{"oversized header", map[string]string{"X-Request-ID": strings.Repeat("a", 129)}},
		{"control characters", map[string]string{"X-Request-ID": "abc\x01def"}},
		{"empty trace id", map[string]string{"X-Cloud-Trace-Context": "/1;o=1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			seen, echoed := serveRequestID(t, tt.headers)
			parsed, err := uuid.Parse(seen)
			if err != nil || parsed.Version() != 4 {
				t.Errorf("request ID = %q, want a generated UUIDv4", seen)
			}
			if echoed != seen {
				t.Errorf("X-Request-ID response header = %q, want %q", echoed, seen)
			}
		})
	}
}

func TestRequestID_GeneratedIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 50 {
		id, _ := serveRequestID(t, nil)
		seen[id] = struct{}{}
	}
	if len(seen) != 50 {
		t.Errorf("50 invocations produced %d distinct IDs", len(seen))
	}
}
