package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
)

// entry logs one record through a fresh logger and decodes it.
func entry(t *testing.T, level, format string, log func(*slog.Logger)) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	log(logging.New(level, format, &buf))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decoding %q: %v", buf.String(), err)
	}
	return m
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   []string
	}{
		{logging.FormatText, []string{"level=INFO", "msg=opened"}},
		{logging.FormatJSON, []string{`"level":"INFO"`, `"msg":"opened"`}},
		{"yaml", []string{`"level":"INFO"`, `"msg":"opened"`}},
		{logging.FormatGCP, []string{`"severity":"INFO"`, `"message":"opened"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logging.New("info", tt.format, &buf).Info("opened")

			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output = %q, want %s", buf.String(), want)
				}
			}
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		configured string
		logged     slog.Level
		emitted    bool
	}{
		{"trace", logging.LevelTrace, true},
		{"debug", logging.LevelTrace, false},
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelInfo, false},
		{"error", slog.LevelWarn, false},
		{"error", slog.LevelError, true},
		{"chatty", slog.LevelDebug, false},
		{"chatty", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logging.New(tt.configured, "json", &buf).Log(context.Background(), tt.logged, "probe")

		if got := buf.Len() > 0; got != tt.emitted {
			t.Errorf("level %q logging %v: emitted = %v, want %v", tt.configured, tt.logged, got, tt.emitted)
		}
	}
}

func TestNew_SourceOnlyAtDebug(t *testing.T) {
	t.Parallel()

	debug := entry(t, "debug", "json", func(l *slog.Logger) { l.Info("x") })
	if _, ok := debug[slog.SourceKey]; !ok {
		t.Errorf("debug entry = %v, want a source field", debug)
	}

	info := entry(t, "info", "json", func(l *slog.Logger) { l.Info("x") })
	if _, ok := info[slog.SourceKey]; ok {
		t.Errorf("info entry = %v, want no source field", info)
	}

	gcp := entry(t, "debug", "gcp", func(l *slog.Logger) { l.Info("x") })
	if _, ok := gcp["logging.googleapis.com/sourceLocation"]; !ok {
		t.Errorf("gcp entry = %v, want logging.googleapis.com/sourceLocation", gcp)
	}
}

func TestNew_TraceLevelNames(t *testing.T) {
	t.Parallel()

	plain := entry(t, "trace", "json", func(l *slog.Logger) {
		l.Log(context.Background(), logging.LevelTrace, "executing action")
	})
	if plain["level"] != "TRACE" {
		t.Errorf("json level = %v, want TRACE", plain["level"])
	}

	gcp := entry(t, "trace", "gcp", func(l *slog.Logger) {
		l.Log(context.Background(), logging.LevelTrace, "executing action")
	})
	if gcp["severity"] != "DEBUG" {
		t.Errorf("gcp severity = %v, want DEBUG", gcp["severity"])
	}
}

func TestNew_GCPSeverities(t *testing.T) {
	t.Parallel()

	tests := map[slog.Level]string{
		slog.LevelDebug: "DEBUG",
		slog.LevelInfo:  "INFO",
		slog.LevelWarn:  "WARNING",
		slog.LevelError: "ERROR",
	}
	for level, want := range tests {
		got := entry(t, "debug", "gcp", func(l *slog.Logger) { l.Log(context.Background(), level, "x") })
		if got["severity"] != want {
			t.Errorf("severity for %v = %v, want %s", level, got["severity"], want)
		}
	}
}

func TestNew_AddsSpanIdentifiers(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "invoke")
	defer span.End()

	withSpan := entry(t, "info", "json", func(l *slog.Logger) { l.InfoContext(ctx, "inside") })
	if withSpan["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("trace_id = %v, want %s", withSpan["trace_id"], span.SpanContext().TraceID())
	}
	if withSpan["span_id"] != span.SpanContext().SpanID().String() {
		t.Errorf("span_id = %v, want %s", withSpan["span_id"], span.SpanContext().SpanID())
	}

	// With attributes still goes through the span-aware handler.
	derived := entry(t, "info", "json", func(l *slog.Logger) {
		l.With(slog.String("action", "dummies.get_dummies")).InfoContext(ctx, "inside")
	})
	if _, ok := derived["trace_id"]; !ok {
		t.Errorf("derived logger entry = %v, want trace_id", derived)
	}

	without := entry(t, "info", "json", func(l *slog.Logger) { l.InfoContext(context.Background(), "outside") })
	if _, ok := without["trace_id"]; ok {
		t.Errorf("entry without span = %v, want no trace_id", without)
	}
}

func TestNew_MasksCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		attr   slog.Attr
		secret string
	}{
		{"authorization field", slog.String("authorization", "Bearer abc"), "abc"},
		{"platform authorization field", slog.String("x-serverless-authorization", "opaque"), "opaque"},
		{"password field", slog.String("password", "hunter2"), "hunter2"},
		{"jwt secret field", slog.String("jwt_secret", "signing-key"), "signing-key"},
		{"secret prefix", slog.String("secret_db", "pw"), "pw"},
		{"bearer value", slog.String("raw_header", "Bearer eyJhbGciOiJSUzI1NiJ9"), "eyJhbGciOiJSUzI1NiJ9"},
		{"jwt value", slog.String("args", "tok=aaaaaaaaaaaa.bbbbbbbbbbbb.cccccccccccc"), "bbbbbbbbbbbb"},
		{"inline api key", slog.String("note", "api_key=k-123"), "k-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logging.New("info", "json", &buf).Info("invoke", tt.attr)

			if strings.Contains(buf.String(), tt.secret) {
				t.Errorf("output = %q leaks %q", buf.String(), tt.secret)
			}
			if !strings.Contains(buf.String(), "[REDACTED]") {
				t.Errorf("output = %q, want a [REDACTED] marker", buf.String())
			}
		})
	}
}

func TestNew_KeepsOrdinaryFields(t *testing.T) {
	t.Parallel()

	got := entry(t, "info", "json", func(l *slog.Logger) {
		l.Info("invoke",
			slog.String("correlation_id", "corr-1"),
			slog.String("operation", "dummies.get_dummies"),
			slog.String("version", "1.2.3"),
		)
	})

	for key, want := range map[string]string{
		"correlation_id": "corr-1",
		"operation":      "dummies.get_dummies",
		"version":        "1.2.3",
	} {
		if got[key] != want {
			t.Errorf("%s = %v, want %s", key, got[key], want)
		}
	}
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	if logging.FromContext(context.Background()) != slog.Default() {
		t.Error("FromContext() on a bare context is not slog.Default()")
	}

	first, second := logging.Discard(), logging.Discard()
	ctx := logging.WithLogger(context.Background(), first)
	ctx = logging.WithLogger(ctx, second)

	if logging.FromContext(ctx) != second {
		t.Error("FromContext() did not return the innermost logger")
	}
	if second.Enabled(ctx, slog.LevelError) {
		t.Error("Discard() logger is enabled at error level")
	}
}
