package remote

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
)

// maxErrorBodySize limits how much of an error response body we read.
const maxErrorBodySize = 1 << 20 // 1 MB

// TranslateError rebuilds the error described by a failed function
// response. Bodies that are not an error description produce an error
// carrying only the status and its text.
func TranslateError(resp *http.Response) error {
	desc, ok := parseErrorDescription(resp)
	if !ok || desc.Code == "" {
		return domain.ErrorForStatus(resp.StatusCode, function.DefaultErrorCode, http.StatusText(resp.StatusCode))
	}

	status := desc.Status
	if status == 0 {
		status = resp.StatusCode
	}

	appErr := domain.ErrorForStatus(status, desc.Code, desc.Message)
	if desc.Name != nil && *desc.Name != "" {
		appErr.Name = *desc.Name
	}
	if desc.Component != nil {
		appErr.Component = *desc.Component
	}
	if desc.Stack != nil {
		appErr.Stack = *desc.Stack
	}
	if details, ok := desc.Details.(map[string]any); ok {
		for k, v := range details {
			appErr.WithDetails(k, v)
		}
	}
	if desc.Cause != nil && *desc.Cause != "" {
		appErr.WithCause(errors.New(*desc.Cause))
	}
	return appErr
}

func parseErrorDescription(resp *http.Response) (function.ErrorDescription, bool) {
	var desc function.ErrorDescription
	if resp.Body == nil {
		return desc, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return desc, false
	}
	if err := json.Unmarshal(body, &desc); err != nil {
		return desc, false
	}
	return desc, true
}
