package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("unavailable")
	ErrInternal     = errors.New("internal error")
)

// Error categories reported in the name field of an error description.
const (
	CategoryBadRequest   = "BadRequest"
	CategoryUnauthorized = "Unauthorized"
	CategoryForbidden    = "Forbidden"
	CategoryNotFound     = "NotFound"
	CategoryConflict     = "Conflict"
	CategoryInternal     = "Internal"
	CategoryUnavailable  = "Unavailable"
)

// Common error codes.
const (
	CodeInvalidData = "INVALID_DATA"
	CodeUnknown     = "UNKNOWN"
)

// Validation messages shared by schemas and entity checks.
const (
	MsgRequired = "is required"
)

// ApplicationError is a coded error carrying everything needed to describe
// a failure to a remote caller. Zero-valued fields are filled with defaults
// when the error is composed into a response.
type ApplicationError struct {
	Code      string
	Status    int
	Message   string
	Name      string
	Details   map[string]any
	Component string
	Stack     string

	kind  error
	cause error
}

// NewBadRequestError creates a 400 error that matches ErrValidation.
func NewBadRequestError(code, message string) *ApplicationError {
	return newApplicationError(ErrValidation, CategoryBadRequest, http.StatusBadRequest, code, message)
}

// NewUnauthorizedError creates a 401 error that matches ErrUnauthorized.
func NewUnauthorizedError(code, message string) *ApplicationError {
	return newApplicationError(ErrUnauthorized, CategoryUnauthorized, http.StatusUnauthorized, code, message)
}

// NewForbiddenError creates a 403 error that matches ErrForbidden.
func NewForbiddenError(code, message string) *ApplicationError {
	return newApplicationError(ErrForbidden, CategoryForbidden, http.StatusForbidden, code, message)
}

// NewNotFoundError creates a 404 error that matches ErrNotFound.
func NewNotFoundError(code, message string) *ApplicationError {
	return newApplicationError(ErrNotFound, CategoryNotFound, http.StatusNotFound, code, message)
}

// NewConflictError creates a 409 error that matches ErrConflict.
func NewConflictError(code, message string) *ApplicationError {
	return newApplicationError(ErrConflict, CategoryConflict, http.StatusConflict, code, message)
}

// NewInternalError creates a 500 error that matches ErrInternal.
func NewInternalError(code, message string) *ApplicationError {
	return newApplicationError(ErrInternal, CategoryInternal, http.StatusInternalServerError, code, message)
}

// NewUnavailableError creates a 503 error that matches ErrUnavailable.
func NewUnavailableError(code, message string) *ApplicationError {
	return newApplicationError(ErrUnavailable, CategoryUnavailable, http.StatusServiceUnavailable, code, message)
}

// ErrorForStatus creates an ApplicationError whose category follows the HTTP
// status. Used to rebuild errors received from remote functions.
func ErrorForStatus(status int, code, message string) *ApplicationError {
	var e *ApplicationError
	switch {
	case status == http.StatusUnauthorized:
		e = NewUnauthorizedError(code, message)
	case status == http.StatusForbidden:
		e = NewForbiddenError(code, message)
	case status == http.StatusNotFound:
		e = NewNotFoundError(code, message)
	case status == http.StatusConflict:
		e = NewConflictError(code, message)
	case status == http.StatusServiceUnavailable || status == http.StatusBadGateway:
		e = NewUnavailableError(code, message)
	case status >= 400 && status < 500:
		e = NewBadRequestError(code, message)
	default:
		e = NewInternalError(code, message)
	}
	e.Status = status
	return e
}

func newApplicationError(kind error, name string, status int, code, message string) *ApplicationError {
	return &ApplicationError{
		Code:    code,
		Status:  status,
		Message: message,
		Name:    name,
		kind:    kind,
	}
}

// WithCause attaches the underlying error. It is reported in the cause field
// and remains reachable through errors.Is and errors.As.
func (e *ApplicationError) WithCause(err error) *ApplicationError {
	e.cause = err
	return e
}

// WithDetails adds a key/value pair to the error details.
func (e *ApplicationError) WithDetails(key string, value any) *ApplicationError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithComponent records the component that raised the error.
func (e *ApplicationError) WithComponent(component string) *ApplicationError {
	e.Component = component
	return e
}

// Cause returns the attached underlying error, or nil.
func (e *ApplicationError) Cause() error {
	return e.cause
}

func (e *ApplicationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *ApplicationError) Unwrap() []error {
	var errs []error
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, field := range keys {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
