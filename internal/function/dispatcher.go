package function

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
)

// Dispatcher is the function entry point. It opens a set of services,
// resolves each request's command to an action, and writes the result.
type Dispatcher struct {
	name     string
	services []*Service
	logger   *slog.Logger

	lifecycle sync.Mutex

	mu     sync.RWMutex
	opened bool
	index  map[string]ActionFunc
}

// NewDispatcher creates a closed dispatcher over services. When two
// services expose the same action name the first one wins.
func NewDispatcher(name string, logger *slog.Logger, services ...*Service) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dispatcher{
		name:     name,
		services: services,
		logger:   logger,
	}
}

// Open opens every service and indexes their actions. If a service fails to
// open, the ones already opened are closed again.
func (d *Dispatcher) Open(ctx context.Context) error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if d.IsOpen() {
		return nil
	}

	for i, svc := range d.services {
		if err := svc.Open(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = d.services[j].Close(ctx)
			}
			return fmt.Errorf("opening function %q: %w", d.name, err)
		}
	}

	index := make(map[string]ActionFunc)
	for _, svc := range d.services {
		for _, a := range svc.Actions() {
			if _, dup := index[a.Name]; dup {
				d.logger.WarnContext(ctx, "duplicate action name ignored",
					slog.String("action", a.Name),
					slog.String("service", svc.Name()),
				)
				continue
			}
			index[a.Name] = a.Handle
		}
	}

	d.mu.Lock()
	d.index = index
	d.opened = true
	d.mu.Unlock()

	d.logger.InfoContext(ctx, "function opened",
		slog.String("function", d.name),
		slog.Int("actions", len(index)),
	)
	return nil
}

// Close closes every service in reverse order. Closing a closed dispatcher
// is a no-op.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if !d.IsOpen() {
		return nil
	}

	d.mu.Lock()
	d.opened = false
	d.index = nil
	d.mu.Unlock()

	var errs []error
	for i := len(d.services) - 1; i >= 0; i-- {
		if err := d.services[i].Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	d.logger.InfoContext(ctx, "function closed", slog.String("function", d.name))
	return errors.Join(errs...)
}

// IsOpen reports whether the dispatcher is open.
func (d *Dispatcher) IsOpen() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opened
}

// Actions returns the actions of every service in order.
func (d *Dispatcher) Actions() []Action {
	var out []Action
	for _, svc := range d.services {
		out = append(out, svc.Actions()...)
	}
	return out
}

// Invoke runs the action named by the request's command. Panics in the
// action are converted into internal errors.
func (d *Dispatcher) Invoke(req *Request) (result any, err error) {
	cmd := req.Command()
	if cmd == "" {
		return nil, domain.NewBadRequestError(CodeNoCommand, "cmd parameter is missing")
	}

	d.mu.RLock()
	opened := d.opened
	handle, ok := d.index[cmd]
	d.mu.RUnlock()

	if !opened {
		return nil, domain.NewUnavailableError(CodeNotOpened, fmt.Sprintf("function %q is not opened", d.name))
	}
	if !ok {
		return nil, domain.NewBadRequestError(CodeNoAction, fmt.Sprintf("action %s was not found", cmd)).
			WithDetails("command", cmd)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = domain.NewInternalError(CodePanic, fmt.Sprintf("action %s panicked: %v", cmd, rec))
		}
	}()

	return handle(req)
}

// ServeHTTP decodes the request, dispatches it, and writes the result or
// the composed error.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := NewRequest(r)
	var result any
	if err == nil {
		result, err = d.Invoke(req)
	}

	var resp *Response
	if err != nil {
		resp = ComposeError(err)
		d.logFailure(ctx, req, resp.Status, err)
	} else if resp, err = toResponse(result); err != nil {
		resp = ComposeError(domain.NewInternalError("RESPONSE_ENCODING", "failed to encode action result").WithCause(err))
		d.logFailure(ctx, req, resp.Status, err)
	}

	if err := resp.Write(w); err != nil {
		d.logger.WarnContext(ctx, "failed to write function response", slog.Any("error", err))
	}
}

func (d *Dispatcher) logFailure(ctx context.Context, req *Request, status int, err error) {
	attrs := []any{
		slog.String("function", d.name),
		slog.Int("status", status),
		slog.Any("error", err),
	}
	if req != nil {
		attrs = append(attrs,
			slog.String("cmd", req.Command()),
			slog.String("correlation_id", req.CorrelationID()),
		)
	}

	if status >= http.StatusInternalServerError {
		d.logger.ErrorContext(ctx, "function invocation failed", attrs...)
		return
	}
	d.logger.WarnContext(ctx, "function invocation rejected", attrs...)
}

// Name returns the function name. With HealthCheck it satisfies
// ports.HealthChecker.
func (d *Dispatcher) Name() string {
	return d.name
}

// HealthCheck reports an error until the dispatcher is open.
func (d *Dispatcher) HealthCheck(_ context.Context) error {
	if !d.IsOpen() {
		return fmt.Errorf("%s: not opened", d.name)
	}
	return nil
}
