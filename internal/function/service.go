package function

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/telemetry"
)

// Registrar registers a service's actions and interceptors. Register runs
// once per Open.
type Registrar interface {
	Register(s *Service) error
}

// RegistrarFunc adapts a function to Registrar.
type RegistrarFunc func(s *Service) error

// Register calls f(s).
func (f RegistrarFunc) Register(s *Service) error {
	return f(s)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the tracer used for instrumentation spans. Defaults to a
// no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithCounters sets the operation counters. Defaults to no-op counters.
func WithCounters(counters *telemetry.Counters) Option {
	return func(s *Service) {
		if counters != nil {
			s.counters = counters
		}
	}
}

// WithValidationPolicy selects how schema failures are reported.
func WithValidationPolicy(p ValidationPolicy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithInterceptors adds interceptors that are registered on every Open,
// ahead of those the registrar adds.
func WithInterceptors(ics ...Interceptor) Option {
	return func(s *Service) {
		s.baseInterceptors = append(s.baseInterceptors, ics...)
	}
}

// Service is a named group of function actions. Actions and interceptors
// are registered during Open and cleared on Close.
type Service struct {
	name             string
	registrar        Registrar
	logger           *slog.Logger
	tracer           trace.Tracer
	counters         *telemetry.Counters
	policy           ValidationPolicy
	baseInterceptors []Interceptor

	lifecycle sync.Mutex

	mu           sync.RWMutex
	opened       bool
	actions      []Action
	interceptors []Interceptor
}

// NewService creates a closed service. A non-empty name namespaces every
// action as "<name>.<action>".
func NewService(name string, registrar Registrar, opts ...Option) *Service {
	s := &Service{
		name:      name,
		registrar: registrar,
		logger:    logging.Discard(),
		tracer:    noop.NewTracerProvider().Tracer(""),
		counters:  telemetry.NoopCounters(),
		policy:    ValidationReturn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the service namespace.
func (s *Service) Name() string {
	return s.name
}

// Logger returns the service logger.
func (s *Service) Logger() *slog.Logger {
	return s.logger
}

// IsOpen reports whether the service is open.
func (s *Service) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opened
}

// Open registers the service's actions. Opening an open service is a no-op.
// When registration fails the service stays closed and nothing remains
// registered.
func (s *Service) Open(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.IsOpen() {
		return nil
	}

	s.mu.Lock()
	s.actions = nil
	s.interceptors = append([]Interceptor(nil), s.baseInterceptors...)
	s.mu.Unlock()

	if s.registrar != nil {
		if err := s.registrar.Register(s); err != nil {
			s.clear()
			return fmt.Errorf("registering actions of service %q: %w", s.name, err)
		}
	}

	s.mu.Lock()
	s.opened = true
	count := len(s.actions)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "function service opened",
		slog.String("service", s.name),
		slog.Int("actions", count),
	)
	return nil
}

// Close clears the registered actions and interceptors. Closing a closed
// service is a no-op. In-flight invocations must be drained first.
func (s *Service) Close(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if !s.IsOpen() {
		return nil
	}
	s.clear()

	s.logger.DebugContext(ctx, "function service closed", slog.String("service", s.name))
	return nil
}

func (s *Service) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = false
	s.actions = nil
	s.interceptors = nil
}

// Actions returns a snapshot of the registered actions in registration order.
func (s *Service) Actions() []Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

// ActionName returns the externally visible name for an action.
func (s *Service) ActionName(name string) string {
	if s.name == "" {
		return name
	}
	return s.name + "." + name
}

// RegisterInterceptor appends an interceptor. It wraps only actions
// registered after it.
func (s *Service) RegisterInterceptor(ic Interceptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interceptors = append(s.interceptors, ic)
}

// RegisterAction registers an action wrapped with the current interceptors
// and, when schema is non-nil, parameter validation.
func (s *Service) RegisterAction(name string, schema Schema, action ActionFunc) {
	handler := s.applyValidation(schema, action)
	handler = s.applyInterceptors(handler)
	s.addAction(name, schema, handler)
}

// RegisterActionWithAuth registers an action whose authorize hook runs
// before the interceptors and validation. The hook decides whether to call
// next and may return its own result or error instead.
func (s *Service) RegisterActionWithAuth(name string, schema Schema, authorize Interceptor, action ActionFunc) {
	handler := s.applyValidation(schema, action)
	handler = s.applyInterceptors(handler)
	if authorize != nil {
		handler = chain(authorize, handler)
	}
	s.addAction(name, schema, handler)
}

func (s *Service) addAction(name string, schema Schema, handler ActionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, Action{
		Name:   s.ActionName(name),
		Schema: schema,
		Handle: handler,
	})
}

func (s *Service) applyValidation(schema Schema, action ActionFunc) ActionFunc {
	if schema == nil {
		return action
	}
	policy := s.policy
	return func(req *Request) (any, error) {
		if req != nil {
			if err := schema.Validate(req.ValidationParams()); err != nil {
				if policy == ValidationThrow {
					return nil, err
				}
				return ComposeError(err), nil
			}
		}
		return action(req)
	}
}

// applyInterceptors folds the current interceptors around action so that
// the first registered interceptor is the outermost.
func (s *Service) applyInterceptors(action ActionFunc) ActionFunc {
	s.mu.RLock()
	ics := make([]Interceptor, len(s.interceptors))
	copy(ics, s.interceptors)
	s.mu.RUnlock()

	handler := action
	for i := len(ics) - 1; i >= 0; i-- {
		handler = chain(ics[i], handler)
	}
	return handler
}
