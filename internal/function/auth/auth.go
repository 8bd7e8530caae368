// Package auth provides authorization hooks for function actions registered
// with function.Service.RegisterActionWithAuth.
//
// A hook has the interceptor signature and runs before the service's
// interceptors and parameter validation. [JWT] verifies a bearer token and
// stores its claims in the request context; [Rule] evaluates a CEL
// expression against those claims and the action name. Hooks compose with
// [Chain]:
//
//	hook := auth.Chain(jwtAuth.Authorize, rule.Authorize)
//	s.RegisterActionWithAuth("create_dummy", schema, hook, s.create)
package auth

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
)

// Error codes returned by the authorization hooks.
const (
	CodeMissingToken = "MISSING_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeAccessDenied = "ACCESS_DENIED"
	CodeRuleFailed   = "RULE_EVALUATION_FAILED"
)

// Claims are the verified token claims of the caller.
type Claims map[string]any

// Subject returns the "sub" claim.
func (c Claims) Subject() string {
	s, _ := c["sub"].(string)
	return s
}

type claimsKey struct{}

// WithClaims returns a new context carrying claims.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the caller's claims, or nil when the request was
// not authenticated.
func ClaimsFromContext(ctx context.Context) Claims {
	c, _ := ctx.Value(claimsKey{}).(Claims)
	return c
}

// Chain combines hooks into one. The first hook runs first; each hook
// decides whether the next one runs.
func Chain(hooks ...function.Interceptor) function.Interceptor {
	return func(req *function.Request, next function.ActionFunc) (any, error) {
		handler := next
		for i := len(hooks) - 1; i >= 0; i-- {
			hook, inner := hooks[i], handler
			handler = func(r *function.Request) (any, error) {
				return hook(r, inner)
			}
		}
		return handler(req)
	}
}

// FromConfig builds the authorization hook described by cfg. It returns nil
// when authorization is disabled.
func FromConfig(cfg config.AuthConfig) (function.Interceptor, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	jwtAuth, err := NewJWT(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Rule == "" {
		return jwtAuth.Authorize, nil
	}

	rule, err := NewRule(cfg.Rule)
	if err != nil {
		return nil, fmt.Errorf("compiling auth rule: %w", err)
	}
	return Chain(jwtAuth.Authorize, rule.Authorize), nil
}
