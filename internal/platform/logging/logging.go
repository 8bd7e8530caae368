// Package logging builds the structured loggers used by function hosts and
// carries them through request contexts.
//
//	logger := logging.New("info", "gcp", os.Stderr)
//	ctx = logging.WithLogger(ctx, logger.With(slog.String("correlation_id", id)))
//	logging.FromContext(ctx).InfoContext(ctx, "dummy created")
//
// Three formats are supported. "text" and "json" are the slog handlers;
// "gcp" is JSON with the field names Cloud Logging reads ("severity",
// "message", "logging.googleapis.com/sourceLocation"). In every format,
// records logged with a context that carries a sampled OpenTelemetry span
// gain trace_id and span_id attributes, and credential-shaped fields and
// values are masked.
//
// Instrumented actions log "executing" entries at [LevelTrace], below debug.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatGCP  = "gcp"
)

const severityKey = "severity"

// LevelTrace is the most verbose level, used for per-invocation
// instrumentation entries.
const LevelTrace = slog.LevelDebug - 4

type contextKey struct{}

// New creates a logger writing to w.
//
// level is one of "trace", "debug", "info", "warn", "error" (case
// insensitive); anything else means info. At debug and below, records carry
// their source location. Unknown formats fall back to JSON.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	rename := renameLevel
	if format == FormatGCP {
		rename = renameGCP
	}
	redact := newRedactor()

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 {
				a = rename(a)
				if a.Key == slog.LevelKey || a.Key == severityKey {
					return a
				}
			}
			return redact(groups, a)
		},
	}

	var h slog.Handler
	if format == FormatText {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(traceHandler{h})
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// renameLevel renders LevelTrace as "TRACE".
func renameLevel(a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
		return slog.String(slog.LevelKey, "TRACE")
	}
	return a
}

// renameGCP maps the built-in keys onto the Cloud Logging structured
// payload.
func renameGCP(a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		lvl, _ := a.Value.Any().(slog.Level)
		return slog.String(severityKey, severity(lvl))
	case slog.MessageKey:
		a.Key = "message"
	case slog.SourceKey:
		a.Key = "logging.googleapis.com/sourceLocation"
	}
	return a
}

func severity(lvl slog.Level) string {
	switch {
	case lvl >= slog.LevelError:
		return "ERROR"
	case lvl >= slog.LevelWarn:
		return "WARNING"
	case lvl >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// traceHandler adds the active span's identifiers to each record.
type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}
