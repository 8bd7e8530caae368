package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
)

// jitterFraction bounds the random spread applied to each backoff delay.
const jitterFraction = 0.25

// retryPolicy is the resolved retry configuration.
type retryPolicy struct {
	attempts   int
	initial    time.Duration
	ceiling    time.Duration
	multiplier float64
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	return retryPolicy{
		attempts:   cfg.MaxAttempts,
		initial:    cfg.InitialInterval,
		ceiling:    cfg.MaxInterval,
		multiplier: cfg.Multiplier,
	}
}

// delay returns the wait before retry n (n >= 1): initial * multiplier^(n-1),
// capped at the ceiling, then spread by up to jitterFraction either way.
func (p retryPolicy) delay(n int) time.Duration {
	d := float64(p.initial) * math.Pow(p.multiplier, float64(n-1))
	if ceiling := float64(p.ceiling); d > ceiling {
		d = ceiling
	}
	d += d * jitterFraction * (2*rand.Float64() - 1) //nolint:gosec // jitter does not need a CSPRNG
	return time.Duration(max(d, 0))
}

// doWithRetry sends req up to the configured number of attempts. The body is
// replayed from req.GetBody when set, otherwise from a buffered copy.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.retry.attempts < 1 {
		return nil, fmt.Errorf("httpclient: retry.max_attempts must be >= 1, got %d", c.retry.attempts)
	}

	rewind, err := bodyRewinder(req)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		if err := rewind(); err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)

		var cause error
		switch {
		case err != nil:
			if !retryableError(err) {
				return nil, err
			}
			cause = err
		case !retryableStatus(resp.StatusCode):
			return resp, nil
		default:
			cause = fmt.Errorf("%s answered %d", c.peer, resp.StatusCode)
		}

		if attempt >= c.retry.attempts {
			return resp, cause
		}

		wait := c.retry.delay(attempt)
		if resp != nil {
			if d, ok := retryAfter(resp, c.retry.ceiling); ok {
				wait = d
			}
			discard(resp)
		}

		logging.FromContext(ctx).WarnContext(ctx, "retrying function call",
			slog.String("peer_service", c.peer),
			slog.String("url", req.URL.String()),
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", c.retry.attempts),
			slog.Duration("backoff", wait),
			slog.Any("error", cause),
		)

		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// bodyRewinder returns a function that resets req.Body before each attempt.
func bodyRewinder(req *http.Request) (func() error, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return func() error { return nil }, nil
	}

	if req.GetBody != nil {
		first := true
		return func() error {
			if first {
				first = false
				return nil
			}
			body, err := req.GetBody()
			if err != nil {
				return fmt.Errorf("rewinding request body: %w", err)
			}
			req.Body = body
			return nil
		}, nil
	}

	buf, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	_ = req.Body.Close()

	return func() error {
		req.Body = io.NopCloser(bytes.NewReader(buf))
		req.ContentLength = int64(len(buf))
		return nil
	}, nil
}

// retryAfter reads a Retry-After header given in seconds. Values above
// ceiling are capped.
func retryAfter(resp *http.Response, ceiling time.Duration) (time.Duration, bool) {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0, false
	}
	return min(time.Duration(secs)*time.Second, ceiling), true
}

// discard drains and closes resp so the connection can be reused.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryableError reports whether a transport error may succeed on retry.
// Cancellation and expired deadlines are final.
func retryableError(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// retryableStatus reports whether a response status is transient. A 500 is
// a composed application error from the function and is not retried.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
