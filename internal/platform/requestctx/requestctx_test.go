package requestctx_test

import (
	"context"
	"testing"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
)

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := requestctx.WithRequestID(context.Background(), "req-1")
	if got := requestctx.RequestID(ctx); got != "req-1" {
		t.Errorf("RequestID() = %q, want %q", got, "req-1")
	}
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := requestctx.WithCorrelationID(context.Background(), "corr-1")
	if got := requestctx.CorrelationID(ctx); got != "corr-1" {
		t.Errorf("CorrelationID() = %q, want %q", got, "corr-1")
	}
}

func TestIDs_EmptyOnBareContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := requestctx.RequestID(ctx); got != "" {
		t.Errorf("RequestID() = %q, want empty", got)
	}
	if got := requestctx.CorrelationID(ctx); got != "" {
		t.Errorf("CorrelationID() = %q, want empty", got)
	}
}

func TestIDs_AreIndependent(t *testing.T) {
	t.Parallel()

	ctx := requestctx.WithRequestID(context.Background(), "req-1")
	ctx = requestctx.WithCorrelationID(ctx, "corr-1")

	if got := requestctx.RequestID(ctx); got != "req-1" {
		t.Errorf("RequestID() = %q, want %q", got, "req-1")
	}
	if got := requestctx.CorrelationID(ctx); got != "corr-1" {
		t.Errorf("CorrelationID() = %q, want %q", got, "corr-1")
	}
}
