package function

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/telemetry"
)

// Timing tracks one instrumented operation. EndTiming must run exactly once
// per invocation; EndFailure, when needed, runs before it.
type Timing struct {
	ctx           context.Context
	correlationID string
	name          string
	logger        *slog.Logger
	counterTiming *telemetry.CounterTiming
	span          trace.Span
	once          sync.Once
}

// Instrument starts instrumentation for the named operation: a trace log
// entry, an "<name>.exec_count" increment, an "<name>.exec_time" timer, and
// a span. The returned context carries the span.
func (s *Service) Instrument(ctx context.Context, correlationID, name string) (context.Context, *Timing) {
	s.logger.Log(ctx, logging.LevelTrace, "executing operation",
		slog.String("correlation_id", correlationID),
		slog.String("operation", name),
	)

	s.counters.IncrementOne(ctx, name+".exec_count")
	counterTiming := s.counters.BeginTiming(name + ".exec_time")

	ctx, span := s.tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("correlation_id", correlationID),
			attribute.String("function.operation", name),
		),
	)

	return ctx, &Timing{
		ctx:           ctx,
		correlationID: correlationID,
		name:          name,
		logger:        s.logger,
		counterTiming: counterTiming,
		span:          span,
	}
}

// EndFailure reports err on the log and the span. A nil error is ignored.
func (t *Timing) EndFailure(err error) {
	if err == nil {
		return
	}
	t.logger.ErrorContext(t.ctx, "operation failed",
		slog.String("correlation_id", t.correlationID),
		slog.String("operation", t.name),
		slog.Any("error", err),
	)
	t.span.RecordError(err)
	t.span.SetStatus(codes.Error, err.Error())
}

// EndTiming records the elapsed time and ends the span. Calls after the
// first are no-ops.
func (t *Timing) EndTiming() {
	t.once.Do(func() {
		t.counterTiming.EndTiming(t.ctx)
		t.span.End()
	})
}

// End reports err, if any, and ends the timing.
func (t *Timing) End(err error) {
	t.EndFailure(err)
	t.EndTiming()
}

// Instrumented runs fn inside instrumentation for the action name (qualified
// with the service namespace). The timing ends on every path; a panic in fn
// is reported as a failure and returned as an internal error.
func (s *Service) Instrumented(req *Request, name string, fn func(ctx context.Context) (any, error)) (result any, err error) {
	ctx, timing := s.Instrument(req.Context(), req.CorrelationID(), s.ActionName(name))
	defer timing.EndTiming()
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = domain.NewInternalError(CodePanic, fmt.Sprintf("operation %s panicked: %v", s.ActionName(name), rec))
			timing.EndFailure(err)
		}
	}()

	result, err = fn(ctx)
	if err != nil {
		timing.EndFailure(err)
	}
	return result, err
}
