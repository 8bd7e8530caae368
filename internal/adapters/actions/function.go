package actions

import (
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function/auth"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function/interceptors"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/telemetry"
)

// Service kinds accepted in function.services.
const (
	KindService     = "service"
	KindCommandable = "commandable"
)

// Deps are the ambient components shared by every function service.
type Deps struct {
	Injector do.Injector
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Counters *telemetry.Counters
}

// NewFunction builds the dispatcher described by cfg. Services are created
// in the order listed and share the interceptor stack:
// recovery, correlation id, logging, rate limit, circuit breaker.
func NewFunction(cfg config.FunctionConfig, deps Deps) (*function.Dispatcher, error) {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}

	policy, err := function.ParseValidationPolicy(cfg.ValidationPolicy)
	if err != nil {
		return nil, err
	}

	authorize, err := auth.FromConfig(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("configuring authorization: %w", err)
	}

	resolver := function.NewDependencyResolver(deps.Injector)
	resolver.Configure(cfg.Dependencies)

	opts := []function.Option{
		function.WithLogger(deps.Logger),
		function.WithTracer(deps.Tracer),
		function.WithCounters(deps.Counters),
		function.WithValidationPolicy(policy),
		function.WithInterceptors(
			interceptors.Recovery(deps.Logger),
			interceptors.CorrelationID(),
			interceptors.Logging(deps.Logger),
			interceptors.RateLimit(cfg.RateLimit),
			interceptors.CircuitBreaker(cfg.Name, cfg.CircuitBreaker, deps.Logger),
		),
	}

	services := make([]*function.Service, 0, len(cfg.Services))
	for _, kind := range cfg.Services {
		switch kind {
		case KindService:
			services = append(services, NewDummyService(cfg.Name, resolver, authorize, opts...).Service)
		case KindCommandable:
			services = append(services, function.NewCommandableService(cfg.Name, resolver, opts...).Service)
		default:
			return nil, fmt.Errorf("unknown function service kind %q", kind)
		}
	}

	return function.NewDispatcher(cfg.Name, deps.Logger, services...), nil
}
