package function

import (
	"fmt"
	"strings"
)

// ActionFunc handles one invocation. It returns a value to serialize, a
// *Response to write unchanged, or an error to compose.
type ActionFunc func(req *Request) (any, error)

// Interceptor wraps an action. It may inspect or replace the request, skip
// next to short-circuit, or post-process the result. Authorization hooks
// share this signature.
type Interceptor func(req *Request, next ActionFunc) (any, error)

// Schema validates the merged parameter set of a request.
type Schema interface {
	Validate(value any) error
}

// Action is a registered, fully wrapped operation.
type Action struct {
	// Name is the externally visible command name.
	Name string

	// Schema is the validation schema, or nil.
	Schema Schema

	// Handle runs the wrapped operation.
	Handle ActionFunc
}

// ValidationPolicy selects what happens when a request fails its schema.
type ValidationPolicy int

const (
	// ValidationReturn composes the validation error into the response and
	// returns it as the action result.
	ValidationReturn ValidationPolicy = iota

	// ValidationThrow fails the action with the validation error.
	ValidationThrow
)

func (p ValidationPolicy) String() string {
	switch p {
	case ValidationReturn:
		return "return"
	case ValidationThrow:
		return "throw"
	default:
		return fmt.Sprintf("ValidationPolicy(%d)", int(p))
	}
}

// ParseValidationPolicy parses "return" or "throw". An empty string selects
// ValidationReturn.
func ParseValidationPolicy(s string) (ValidationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "return":
		return ValidationReturn, nil
	case "throw":
		return ValidationThrow, nil
	default:
		return ValidationReturn, fmt.Errorf("unknown validation policy %q", s)
	}
}

// chain binds one interceptor around next. Each call yields a new closure
// holding its own interceptor and continuation.
func chain(ic Interceptor, next ActionFunc) ActionFunc {
	return func(req *Request) (any, error) {
		return ic(req, next)
	}
}
