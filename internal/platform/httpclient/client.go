// Package httpclient is the outbound transport for calls between functions.
// A request passes through these stages, outermost first:
//
//	circuit breaker -> rate limiter -> client span + header propagation -> retry -> net/http
//
// Function endpoints answer every action with a JSON body, and a 500 from a
// function is a composed application error rather than a transient fault, so
// only transport failures and 429/502/503/504 answers are retried and counted
// against the breaker.
//
//	client := httpclient.New(&cfg.Client, "dummies-function", metrics, logger)
//	resp, err := client.Do(ctx, req)
//
// Request and correlation IDs stored with the requestctx package travel as
// X-Request-ID and X-Correlation-ID headers, and the W3C trace context is
// injected with the global propagator.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/telemetry"
)

// Propagated identifier headers.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// Metric result labels.
const (
	resultSuccess     = "success"
	resultError       = "error"
	resultCircuitOpen = "circuit_open"
)

// Client sends requests to one peer function.
type Client struct {
	http    *http.Client
	baseURL string
	peer    string
	breaker *gobreaker.CircuitBreaker[*http.Response]
	limiter *rate.Limiter
	retry   retryPolicy
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New creates a Client for the peer named peer. A nil metrics skips metric
// recording and a nil logger discards output.
func New(cfg *config.ClientConfig, peer string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}

	c := &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		peer:    peer,
		retry:   newRetryPolicy(cfg.Retry),
		metrics: metrics,
		logger:  logger,
	}

	trip := toUint32(cfg.CircuitBreaker.MaxFailures)
	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        peer,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	if rl := cfg.RateLimit; rl.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), max(rl.Burst, 1))
	}

	return c
}

// Do sends req and returns the peer's response.
//
// A response with a non-retryable status is returned with a nil error, even
// for 4xx and 500 answers; the caller inspects the status. When retries run
// out on a retryable status, the last response is returned together with the
// error. When the breaker rejects the call or the transport fails, resp is
// nil. A non-nil resp always has an open body the caller must close.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.send(ctx, req)
	})

	c.record(ctx, req.Method, time.Since(start), resp, err)
	return resp, err
}

func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for %s rate limit: %w", c.peer, err)
		}
	}

	ctx, span := otel.GetTracerProvider().Tracer("httpclient").Start(ctx,
		"call "+c.peer,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.peer),
		),
	)
	defer span.End()

	req = req.WithContext(ctx)
	propagate(ctx, req.Header)

	resp, err := c.doWithRetry(ctx, req)

	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

// propagate copies request-scoped identifiers and the trace context into
// outbound headers.
func propagate(ctx context.Context, h http.Header) {
	if id := requestctx.RequestID(ctx); id != "" {
		h.Set(HeaderRequestID, id)
	}
	if id := requestctx.CorrelationID(ctx); id != "" {
		h.Set(HeaderCorrelationID, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))
}

// BaseURL returns the peer's base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Name returns the peer name. With HealthCheck it satisfies
// ports.HealthChecker.
func (c *Client) Name() string {
	return c.peer
}

// HealthCheck derives the peer's health from the breaker state without a
// network call. An open breaker is failing and a half-open one is degraded.
func (c *Client) HealthCheck(_ context.Context) error {
	switch state := c.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", c.peer)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", c.peer)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", c.peer, state)
	}
}

// record emits the client duration and count instruments. It runs outside
// the breaker so rejected calls are counted too.
func (c *Client) record(ctx context.Context, method string, elapsed time.Duration, resp *http.Response, err error) {
	if c.metrics == nil {
		return
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	result := resultSuccess
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = resultCircuitOpen
	case err != nil, status >= http.StatusBadRequest:
		result = resultError
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrPeerService.String(c.peer),
		telemetry.AttrResult.String(result),
	)
	c.metrics.ClientRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	c.metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}

// toUint32 converts a config count, clamping to [0, MaxUint32].
func toUint32(v int) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
