package function

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a pre-built HTTP response. Actions may return it to control
// the status, headers, and body; the dispatcher writes it unchanged.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NoContent returns an empty 204 response.
func NoContent() *Response {
	return &Response{Status: http.StatusNoContent, Header: http.Header{}}
}

// JSON encodes v as a response with the given status.
func JSON(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response body: %w", err)
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return &Response{Status: status, Header: h, Body: body}, nil
}

// Write copies the response to w.
func (r *Response) Write(w http.ResponseWriter) error {
	for k, vs := range r.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(r.Body) == 0 || status == http.StatusNoContent {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

// toResponse converts an action result into a Response.
func toResponse(result any) (*Response, error) {
	switch v := result.(type) {
	case nil:
		return NoContent(), nil
	case *Response:
		if v == nil {
			return NoContent(), nil
		}
		return v, nil
	case []byte:
		h := http.Header{}
		h.Set("Content-Type", "application/octet-stream")
		return &Response{Status: http.StatusOK, Header: h, Body: v}, nil
	case string:
		h := http.Header{}
		h.Set("Content-Type", "text/plain; charset=utf-8")
		return &Response{Status: http.StatusOK, Header: h, Body: []byte(v)}, nil
	default:
		return JSON(http.StatusOK, v)
	}
}
