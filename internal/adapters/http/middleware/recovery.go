package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
)

// Recovery turns a panic outside the dispatcher into a logged stack and a
// composed PANIC description. Nothing is written when the response has
// already started. http.ErrAbortHandler is re-raised for net/http to abort
// the connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				logger.ErrorContext(r.Context(), "invocation panicked",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("route", r.URL.Path),
					slog.Bool("response_started", ww.Status() != 0),
				)
				if ww.Status() != 0 {
					return
				}
				desc := domain.NewInternalError(function.CodePanic, "internal server error")
				_ = function.ComposeError(desc).Write(ww)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
