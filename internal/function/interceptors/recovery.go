package interceptors

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
)

// Recovery returns an interceptor that converts a panic in downstream
// interceptors or the action into an internal error. The panic value and
// stack are logged but never returned to the caller.
func Recovery(logger *slog.Logger) function.Interceptor {
	return func(req *function.Request, next function.ActionFunc) (result any, err error) {
		defer func() {
			if v := recover(); v != nil {
				logger.ErrorContext(req.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("cmd", req.Command()),
					slog.String("correlation_id", req.CorrelationID()),
				)
				result = nil
				err = domain.NewInternalError(function.CodePanic, "internal server error")
			}
		}()

		return next(req)
	}
}
