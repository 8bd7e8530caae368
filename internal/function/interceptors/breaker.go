package interceptors

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
)

// CodeCircuitOpen is returned while the breaker rejects calls.
const CodeCircuitOpen = "CIRCUIT_OPEN"

// errServerFailure marks a composed 5xx response so the breaker counts it.
var errServerFailure = errors.New("action returned a server error response")

// CircuitBreaker returns an interceptor that stops calling downstream
// actions after MaxFailures consecutive server-side failures. Client errors
// (4xx) never trip the breaker. While open, calls fail with a 503 error.
func CircuitBreaker(name string, cfg config.CircuitBreakerConfig, logger *slog.Logger) function.Interceptor {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: toUint32(cfg.HalfOpenLimit),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isServerError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return func(req *function.Request, next function.ActionFunc) (any, error) {
		var actionErr error
		result, err := cb.Execute(func() (any, error) {
			res, err := next(req)
			actionErr = err
			if err != nil {
				return res, err
			}
			if resp, ok := res.(*function.Response); ok && resp != nil && resp.Status >= http.StatusInternalServerError {
				return res, errServerFailure
			}
			return res, nil
		})

		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, domain.NewUnavailableError(CodeCircuitOpen, "circuit breaker is open for "+name).
				WithCause(err)
		case errors.Is(err, errServerFailure):
			return result, nil
		}
		return result, actionErr
	}
}

func isServerError(err error) bool {
	return errors.Is(err, errServerFailure) ||
		function.ErrorStatus(err) >= http.StatusInternalServerError
}

func toUint32(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
