// Package remote implements outbound clients for deployed function
// services. Every call is a JSON POST carrying the command name and
// correlation ID alongside the arguments, sent through the instrumented
// [httpclient.Client]. Error descriptions returned by the remote dispatcher
// are rebuilt into [domain.ApplicationError] values so callers can match them
// with errors.Is and errors.As as if the function ran in process.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"

	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/httpclient"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
)

// Client invokes actions on a remote function.
type Client struct {
	http   *httpclient.Client
	logger *slog.Logger
	token  string
}

// NewClient creates a Client that posts to the base URL of client.
func NewClient(client *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{http: client, logger: logger}
}

// WithBearerToken returns a copy of c that authenticates every call with
// token.
func (c *Client) WithBearerToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Call invokes cmd with args and decodes the JSON result into result.
// It reports false when the function answered 204 No Content, in which case
// result is left untouched. Pass a nil result to discard the body.
func (c *Client) Call(ctx context.Context, cmd, correlationID string, args map[string]any, result any) (bool, error) {
	payload := make(map[string]any, len(args)+2)
	maps.Copy(payload, args)
	payload[function.ParamCommand] = cmd
	if correlationID != "" {
		payload[function.ParamCorrelationID] = correlationID
		ctx = requestctx.WithCorrelationID(ctx, correlationID)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshaling %s arguments: %w", cmd, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.http.BaseURL()+"/", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("creating request for %s: %w", cmd, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(ctx, req)
	if resp != nil {
		defer c.closeBody(ctx, resp)
	}
	if err != nil {
		// Do returns the last response alongside the error when retries are
		// exhausted on a retryable status.
		if resp != nil && resp.StatusCode >= http.StatusBadRequest {
			return false, TranslateError(resp)
		}
		c.logger.ErrorContext(ctx, "function call failed",
			slog.String("cmd", cmd),
			slog.String("correlation_id", correlationID),
			slog.Any("error", err),
		)
		return false, fmt.Errorf("calling %s: %w", cmd, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		translated := TranslateError(resp)
		c.logger.WarnContext(ctx, "function returned an error",
			slog.String("cmd", cmd),
			slog.String("correlation_id", correlationID),
			slog.Int("status", resp.StatusCode),
			slog.Any("error", translated),
		)
		return false, translated
	}
	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("decoding %s result: %w", cmd, err)
		}
	}
	return true, nil
}

// Name returns the downstream identifier of the underlying HTTP client.
func (c *Client) Name() string {
	return c.http.Name()
}

// HealthCheck reports the circuit breaker state of the underlying HTTP
// client. No network call is made.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.http.HealthCheck(ctx)
}

func (c *Client) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}
