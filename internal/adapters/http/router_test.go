package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	adapthttp "github.com/jsamuelsen11/go-gcp-functions/internal/adapters/http"
	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/mocks"
)

// captureDispatcher records the command it sees for each request.
type captureDispatcher struct {
	commands []string
}

func (d *captureDispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := function.NewRequest(r)
	if err != nil {
		_ = function.ComposeError(err).Write(w)
		return
	}
	d.commands = append(d.commands, req.Command())
	w.WriteHeader(http.StatusNoContent)
}

func newTestRouter(t *testing.T) (http.Handler, *captureDispatcher, *mocks.MockHealthRegistry) {
	t.Helper()
	registry := mocks.NewMockHealthRegistry(t)
	dispatcher := &captureDispatcher{}

	router := adapthttp.NewRouter(dispatcher, handlers.NewHealthHandler(registry))
	return router, dispatcher, registry
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	mux, ok := router.(*chi.Mux)
	if !ok {
		t.Fatalf("router is %T, want *chi.Mux", router)
	}

	got := make(map[string]bool)
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk() error = %v", err)
	}

	for _, route := range []string{
		"GET /health/live",
		"GET /health/ready",
		"POST /",
		"POST /{cmd}",
	} {
		if !got[route] {
			t.Errorf("route %s is not registered; got %v", route, got)
		}
	}
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	registry := mocks.NewMockHealthRegistry(t)
	router := adapthttp.NewRouter(&captureDispatcher{}, handlers.NewHealthHandler(registry),
		tag("outer"), tag("inner"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cmd":"dummies.get_dummies"}`)))

	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("middleware order = %v, want [outer inner]", order)
	}
}

func TestRouter_Invocations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		body    string
		command string
	}{
		{"command in body", "/", `{"cmd":"dummies.get_dummies"}`, "dummies.get_dummies"},
		{"command in query", "/?cmd=dummies.delete_dummy", `{"dummy_id":"1"}`, "dummies.delete_dummy"},
		{"command in path", "/dummies.get_dummy_by_id", `{"dummy_id":"1"}`, "dummies.get_dummy_by_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router, dispatcher, _ := newTestRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body)))

			if rec.Code != http.StatusNoContent {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusNoContent, rec.Body.String())
			}
			if len(dispatcher.commands) != 1 || dispatcher.commands[0] != tt.command {
				t.Errorf("commands = %v, want [%s]", dispatcher.commands, tt.command)
			}
		})
	}
}

func TestRouter_ProbesBypassDispatcher(t *testing.T) {
	t.Parallel()

	router, dispatcher, registry := newTestRouter(t)
	registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{"dummies": nil})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(dispatcher.commands) != 0 {
		t.Errorf("dispatcher saw %v, want nothing", dispatcher.commands)
	}
}

func TestRouter_UnroutedRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		target string
		status int
		code   string
	}{
		{"unknown nested path", http.MethodPost, "/dummies/get", http.StatusNotFound, adapthttp.CodeRouteNotFound},
		{"unknown probe", http.MethodGet, "/health/startup", http.StatusNotFound, adapthttp.CodeRouteNotFound},
		{"get on invocation route", http.MethodGet, "/", http.StatusMethodNotAllowed, adapthttp.CodeMethodNotAllowed},
		{"post on probe", http.MethodPost, "/health/live", http.StatusMethodNotAllowed, adapthttp.CodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router, dispatcher, _ := newTestRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var desc function.ErrorDescription
			if err := json.Unmarshal(rec.Body.Bytes(), &desc); err != nil {
				t.Fatalf("decoding %q: %v", rec.Body.String(), err)
			}
			if desc.Code != tt.code || desc.Status != tt.status {
				t.Errorf("description = %+v, want code %s status %d", desc, tt.code, tt.status)
			}
			if len(dispatcher.commands) != 0 {
				t.Errorf("dispatcher saw %v, want nothing", dispatcher.commands)
			}
		})
	}
}
