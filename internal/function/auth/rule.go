package auth

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
)

// Rule is a compiled CEL access rule. The expression sees two variables:
// claims (the caller's token claims, empty when unauthenticated) and action
// (the invoked command name). It must evaluate to a bool.
//
//	"writer" in claims.roles || claims.sub == "admin"
type Rule struct {
	expr    string
	program cel.Program
}

// NewRule compiles expr.
func NewRule(expr string) (*Rule, error) {
	env, err := cel.NewEnv(
		cel.Variable("claims", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("action", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid rule %q: %w", expr, issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("rule %q must return bool, got %s", expr, t)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("creating program for rule %q: %w", expr, err)
	}
	return &Rule{expr: expr, program: program}, nil
}

// Allow evaluates the rule.
func (r *Rule) Allow(claims Claims, action string) (bool, error) {
	if claims == nil {
		claims = Claims{}
	}

	out, _, err := r.program.Eval(map[string]any{
		"claims": map[string]any(claims),
		"action": action,
	})
	if err != nil {
		return false, fmt.Errorf("evaluating rule %q: %w", r.expr, err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q did not return a bool", r.expr)
	}
	return allowed, nil
}

// Authorize is an authorization hook. It rejects the request with a 403
// error when the rule denies access or fails to evaluate.
func (r *Rule) Authorize(req *function.Request, next function.ActionFunc) (any, error) {
	allowed, err := r.Allow(ClaimsFromContext(req.Context()), req.Command())
	if err != nil {
		return nil, domain.NewForbiddenError(CodeRuleFailed, "access rule could not be evaluated").WithCause(err)
	}
	if !allowed {
		return nil, domain.NewForbiddenError(CodeAccessDenied, "access denied for "+req.Command())
	}
	return next(req)
}
