package interceptors

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
)

// Logging returns an interceptor that logs action start and completion. It
// stores a child logger enriched with the command and correlation ID in the
// request context for downstream use.
func Logging(logger *slog.Logger) function.Interceptor {
	return func(req *function.Request, next function.ActionFunc) (any, error) {
		start := time.Now()
		ctx := req.Context()

		child := logger.With(
			slog.String("cmd", req.Command()),
			slog.String("correlation_id", req.CorrelationID()),
		)
		ctx = logging.WithLogger(ctx, child)

		child.DebugContext(ctx, "action started")

		result, err := next(req.WithContext(ctx))

		status := resultStatus(result, err)
		attrs := []any{
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		}
		switch {
		case err != nil:
			child.WarnContext(ctx, "action failed", append(attrs, slog.Any("error", err))...)
		case status >= http.StatusBadRequest:
			child.WarnContext(ctx, "action failed", attrs...)
		default:
			child.InfoContext(ctx, "action completed", attrs...)
		}
		return result, err
	}
}

// resultStatus reports the HTTP status an action outcome will produce.
func resultStatus(result any, err error) int {
	if err != nil {
		return function.ErrorStatus(err)
	}
	if resp, ok := result.(*function.Response); ok && resp != nil {
		if resp.Status == 0 {
			return http.StatusOK
		}
		return resp.Status
	}
	if result == nil {
		return http.StatusNoContent
	}
	return http.StatusOK
}
