package interceptors

import (
	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
)

// CorrelationID returns an interceptor that guarantees every invocation a
// correlation ID. An ID supplied by the caller is kept; otherwise a new
// UUID is generated. The ID is stored in the request context.
func CorrelationID() function.Interceptor {
	return func(req *function.Request, next function.ActionFunc) (any, error) {
		id := req.CorrelationID()
		if id == "" {
			id = uuid.NewString()
		}
		if requestctx.CorrelationID(req.Context()) == id {
			return next(req)
		}
		return next(req.WithContext(requestctx.WithCorrelationID(req.Context(), id)))
	}
}
