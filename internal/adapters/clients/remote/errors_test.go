package remote_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/clients/remote"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestTranslateError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantStatus int
		wantIs     error
	}{
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       `{"code":"DUMMY_NOT_FOUND","status":404,"message":"missing"}`,
			wantCode:   "DUMMY_NOT_FOUND",
			wantStatus: http.StatusNotFound,
			wantIs:     domain.ErrNotFound,
		},
		{
			name:       "conflict",
			status:     http.StatusConflict,
			body:       `{"code":"DUMMY_EXISTS","status":409,"message":"exists"}`,
			wantCode:   "DUMMY_EXISTS",
			wantStatus: http.StatusConflict,
			wantIs:     domain.ErrConflict,
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"code":"MISSING_TOKEN","status":401,"message":"no token"}`,
			wantCode:   "MISSING_TOKEN",
			wantStatus: http.StatusUnauthorized,
			wantIs:     domain.ErrUnauthorized,
		},
		{
			name:       "unavailable",
			status:     http.StatusServiceUnavailable,
			body:       `{"code":"NOT_OPENED","status":503,"message":"closed"}`,
			wantCode:   "NOT_OPENED",
			wantStatus: http.StatusServiceUnavailable,
			wantIs:     domain.ErrUnavailable,
		},
		{
			name:       "status taken from response when body omits it",
			status:     http.StatusBadRequest,
			body:       `{"code":"INVALID_JSON","message":"bad"}`,
			wantCode:   "INVALID_JSON",
			wantStatus: http.StatusBadRequest,
			wantIs:     domain.ErrValidation,
		},
		{
			name:       "non json body",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantCode:   function.DefaultErrorCode,
			wantStatus: http.StatusBadGateway,
			wantIs:     domain.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := remote.TranslateError(response(tt.status, tt.body))

			var appErr *domain.ApplicationError
			if !errors.As(err, &appErr) {
				t.Fatalf("error %T is not *domain.ApplicationError", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", appErr.Code, tt.wantCode)
			}
			if appErr.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", appErr.Status, tt.wantStatus)
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(err, %v) = false", tt.wantIs)
			}
		})
	}
}

func TestTranslateError_KeepsDescriptionFields(t *testing.T) {
	t.Parallel()

	err := remote.TranslateError(response(http.StatusConflict,
		`{"code":"DUMMY_EXISTS","status":409,"message":"exists","name":"Conflict",`+
			`"details":{"id":"d1"},"component":"dummies","cause":"duplicate key"}`))

	var appErr *domain.ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %T is not *domain.ApplicationError", err)
	}
	if appErr.Component != "dummies" {
		t.Errorf("Component = %q, want %q", appErr.Component, "dummies")
	}
	if appErr.Details["id"] != "d1" {
		t.Errorf("Details = %v, want id=d1", appErr.Details)
	}
	if appErr.Cause() == nil || appErr.Cause().Error() != "duplicate key" {
		t.Errorf("Cause() = %v, want %q", appErr.Cause(), "duplicate key")
	}
}
