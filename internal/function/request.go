package function

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-gcp-functions/internal/commands"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/requestctx"
)

// Well-known request parameter names.
const (
	ParamCommand       = "cmd"
	ParamCorrelationID = "correlation_id"
	HeaderCorrelation  = "X-Correlation-ID"
)

// maxBodyBytes bounds the JSON payload read from an inbound request.
const maxBodyBytes = 1 << 20

// Request is an inbound function invocation: the HTTP request plus its
// decoded query, path, and JSON body parameters.
type Request struct {
	HTTP       *http.Request
	Query      map[string]string
	PathParams map[string]string
	Body       map[string]any
	RawBody    []byte
}

// NewRequest decodes r into a Request. The body, when present, must be a JSON
// object no larger than 1 MiB.
func NewRequest(r *http.Request) (*Request, error) {
	req := &Request{
		HTTP:       r,
		Query:      make(map[string]string),
		PathParams: make(map[string]string),
	}

	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			req.Query[k] = v[0]
		}
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, k := range rctx.URLParams.Keys {
			if k == "*" || i >= len(rctx.URLParams.Values) {
				continue
			}
			req.PathParams[k] = rctx.URLParams.Values[i]
		}
	}

	if r.Body != nil && r.Body != http.NoBody {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if err != nil {
			return nil, domain.NewBadRequestError("INVALID_BODY", "failed to read request body").WithCause(err)
		}
		if len(raw) > maxBodyBytes {
			return nil, domain.NewBadRequestError("BODY_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes))
		}
		req.RawBody = raw

		if len(bytes.TrimSpace(raw)) > 0 {
			var body map[string]any
			if err := json.Unmarshal(raw, &body); err != nil {
				return nil, domain.NewBadRequestError("INVALID_JSON", "request body must be a JSON object").
					WithCause(err)
			}
			req.Body = body
		}
	}

	return req, nil
}

// Context returns the request context.
func (r *Request) Context() context.Context {
	if r == nil || r.HTTP == nil {
		return context.Background()
	}
	return r.HTTP.Context()
}

// WithContext returns a shallow copy of r bound to ctx.
func (r *Request) WithContext(ctx context.Context) *Request {
	out := *r
	if r.HTTP != nil {
		out.HTTP = r.HTTP.WithContext(ctx)
	} else {
		out.HTTP = (&http.Request{}).WithContext(ctx)
	}
	return &out
}

// CorrelationID returns the caller's correlation id. It is looked up in the
// path, the query, the correlation_id and X-Correlation-ID headers, the
// request context, and finally the body. Returns "" when none is present.
func (r *Request) CorrelationID() string {
	if r == nil {
		return ""
	}
	if v := r.PathParams[ParamCorrelationID]; v != "" {
		return v
	}
	if v := r.Query[ParamCorrelationID]; v != "" {
		return v
	}
	if r.HTTP != nil {
		if v := r.HTTP.Header.Get(ParamCorrelationID); v != "" {
			return v
		}
		if v := r.HTTP.Header.Get(HeaderCorrelation); v != "" {
			return v
		}
	}
	if v := requestctx.CorrelationID(r.Context()); v != "" {
		return v
	}
	if v, ok := r.Body[ParamCorrelationID].(string); ok {
		return v
	}
	return ""
}

// Command returns the target command name from the path, the query, or the
// body, in that order.
func (r *Request) Command() string {
	if v := r.PathParams[ParamCommand]; v != "" {
		return v
	}
	if v := r.Query[ParamCommand]; v != "" {
		return v
	}
	if v, ok := r.Body[ParamCommand].(string); ok {
		return v
	}
	return ""
}

// Parameters merges query, path, and body parameters. Body values win over
// path values, which win over query values.
func (r *Request) Parameters() commands.Parameters {
	params := make(commands.Parameters, len(r.Query)+len(r.PathParams)+len(r.Body))
	for k, v := range r.Query {
		params[k] = v
	}
	for k, v := range r.PathParams {
		params[k] = v
	}
	for k, v := range r.Body {
		params[k] = v
	}
	return params
}

// ValidationParams returns the parameter set checked by action schemas:
// query and path parameters at the top level and the body (or an empty
// object) under "body".
func (r *Request) ValidationParams() map[string]any {
	params := make(map[string]any, len(r.Query)+len(r.PathParams)+1)
	for k, v := range r.Query {
		params[k] = v
	}
	for k, v := range r.PathParams {
		params[k] = v
	}
	if r.Body != nil {
		params["body"] = r.Body
	} else {
		params["body"] = map[string]any{}
	}
	return params
}
