package interceptors

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
)

// CodeTooManyRequests is returned when the rate limiter rejects a call.
const CodeTooManyRequests = "TOO_MANY_REQUESTS"

// RateLimit returns an interceptor backed by a token bucket shared by every
// action it wraps. Calls over the limit fail immediately with a 429 error.
// A zero RequestsPerSecond disables limiting.
func RateLimit(cfg config.RateLimitConfig) function.Interceptor {
	if cfg.RequestsPerSecond <= 0 {
		return passthrough
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return RateLimitWith(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst))
}

// RateLimitWith returns a rate limiting interceptor using limiter.
func RateLimitWith(limiter *rate.Limiter) function.Interceptor {
	return func(req *function.Request, next function.ActionFunc) (any, error) {
		if !limiter.Allow() {
			return nil, domain.ErrorForStatus(http.StatusTooManyRequests, CodeTooManyRequests,
				"rate limit exceeded for "+req.Command())
		}
		return next(req)
	}
}

func passthrough(req *function.Request, next function.ActionFunc) (any, error) {
	return next(req)
}
