package function

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
)

// Error description defaults.
const (
	DefaultErrorCode    = "Undefined"
	DefaultErrorStatus  = http.StatusInternalServerError
	DefaultErrorMessage = "Unknown error"
)

// Error codes produced by the dispatcher itself.
const (
	CodeNoCommand = "NO_COMMAND"
	CodeNoAction  = "NO_ACTION"
	CodeNotOpened = "NOT_OPENED"
	CodePanic     = "PANIC"
)

// ErrorDescription is the wire form of a failure returned to callers.
// Optional fields are encoded as null when unknown.
type ErrorDescription struct {
	Code      string  `json:"code"`
	Status    int     `json:"status"`
	Message   string  `json:"message"`
	Name      *string `json:"name"`
	Details   any     `json:"details"`
	Component *string `json:"component"`
	Stack     *string `json:"stack"`
	Cause     *string `json:"cause"`
}

type sentinelStatus struct {
	err    error
	status int
	code   string
	name   string
}

var sentinelStatuses = []sentinelStatus{
	{domain.ErrValidation, http.StatusBadRequest, "BAD_REQUEST", domain.CategoryBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", domain.CategoryUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN", domain.CategoryForbidden},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND", domain.CategoryNotFound},
	{domain.ErrConflict, http.StatusConflict, "CONFLICT", domain.CategoryConflict},
	{domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE", domain.CategoryUnavailable},
	{domain.ErrInternal, http.StatusInternalServerError, "INTERNAL", domain.CategoryInternal},
}

// NewErrorDescription normalizes err. A nil error yields the default
// description; every field the error does not supply is defaulted.
func NewErrorDescription(err error) ErrorDescription {
	desc := ErrorDescription{
		Code:    DefaultErrorCode,
		Status:  DefaultErrorStatus,
		Message: DefaultErrorMessage,
	}
	if err == nil {
		return desc
	}

	var (
		appErr *domain.ApplicationError
		verr   *domain.ValidationError
	)
	switch {
	case errors.As(err, &appErr):
		fillFromApplicationError(&desc, appErr)
	case errors.As(err, &verr):
		desc.Code = domain.CodeInvalidData
		desc.Status = http.StatusBadRequest
		desc.Message = verr.Error()
		desc.Name = ptr(domain.CategoryBadRequest)
		if len(verr.Fields) > 0 {
			desc.Details = verr.Fields
		}
	default:
		if msg := err.Error(); msg != "" {
			desc.Message = msg
		}
		for _, s := range sentinelStatuses {
			if errors.Is(err, s.err) {
				desc.Code = s.code
				desc.Status = s.status
				desc.Name = ptr(s.name)
				break
			}
		}
		if cause := errors.Unwrap(err); cause != nil {
			desc.Cause = ptr(cause.Error())
		}
	}

	if desc.Stack == nil {
		desc.Stack = ptr(string(debug.Stack()))
	}
	return desc
}

// ErrorStatus returns the HTTP status NewErrorDescription would assign to
// err, without capturing a stack.
func ErrorStatus(err error) int {
	if err == nil {
		return DefaultErrorStatus
	}
	var (
		appErr *domain.ApplicationError
		verr   *domain.ValidationError
	)
	switch {
	case errors.As(err, &appErr):
		if appErr.Status >= 100 && appErr.Status <= 599 {
			return appErr.Status
		}
		return DefaultErrorStatus
	case errors.As(err, &verr):
		return http.StatusBadRequest
	}
	for _, s := range sentinelStatuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return DefaultErrorStatus
}

func fillFromApplicationError(desc *ErrorDescription, e *domain.ApplicationError) {
	if e.Code != "" {
		desc.Code = e.Code
	}
	if e.Status >= 100 && e.Status <= 599 {
		desc.Status = e.Status
	}
	if e.Message != "" {
		desc.Message = e.Message
	}
	if e.Name != "" {
		desc.Name = ptr(e.Name)
	}
	if len(e.Details) > 0 {
		desc.Details = e.Details
	}
	if e.Component != "" {
		desc.Component = ptr(e.Component)
	}
	if e.Stack != "" {
		desc.Stack = ptr(e.Stack)
	}
	if cause := e.Cause(); cause != nil {
		desc.Cause = ptr(cause.Error())
	}
}

// ComposeError converts err into a JSON error response whose status equals
// the description's status.
func ComposeError(err error) *Response {
	desc := NewErrorDescription(err)

	body, mErr := json.Marshal(desc)
	if mErr != nil {
		// Details held something unencodable; drop them.
		desc.Details = nil
		body, _ = json.Marshal(desc)
	}

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return &Response{Status: desc.Status, Header: h, Body: body}
}

func ptr[T any](v T) *T {
	return &v
}
