// Package main is the entry point for the dummies function. It wires the
// function services with samber/do v2, opens the dispatcher, serves it over
// HTTP, and closes everything on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel"

	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/actions"
	adapthttp "github.com/jsamuelsen11/go-gcp-functions/internal/adapters/http"
	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-gcp-functions/internal/app/dummies"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/health"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-gcp-functions/internal/ports"
)

const (
	closeTimeout = 5 * time.Second
	tracerName   = "github.com/jsamuelsen11/go-gcp-functions/function"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyPlatformPort(cfg); err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, providers.Metrics)
	do.ProvideValue(injector, providers.Counters())

	registerDependencies(injector, cfg, logger)

	dispatcher, err := do.Invoke[*function.Dispatcher](injector)
	if err != nil {
		return fmt.Errorf("resolving function: %w", err)
	}
	if err := dispatcher.Open(ctx); err != nil {
		return fmt.Errorf("opening function: %w", err)
	}

	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(dispatcher)

	logger.Info("function opened",
		slog.String("name", dispatcher.Name()),
		slog.Int("actions", len(dispatcher.Actions())),
	)

	serveErr := server.Run(ctx)
	if serveErr != nil {
		logger.Error("server stopped", slog.Any("error", serveErr))
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()

	if err := dispatcher.Close(closeCtx); err != nil {
		logger.Error("function close error", slog.Any("error", err))
	}
	if err := providers.Shutdown(closeCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return serveErr
}

// applyPlatformPort honors the PORT variable set by the Cloud Functions and
// Cloud Run runtimes.
func applyPlatformPort(cfg *config.Config) error {
	raw := os.Getenv("PORT")
	if raw == "" {
		return nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", raw)
	}
	cfg.Server.Port = port
	return nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	// Components the function services look up by name.
	if name := cfg.Function.Dependencies[function.ControllerDependency]; name != "" {
		do.ProvideNamed(injector, name, func(_ do.Injector) (any, error) {
			return dummies.NewController(logger), nil
		})
	}

	do.Provide(injector, func(i do.Injector) (*function.Dispatcher, error) {
		return actions.NewFunction(cfg.Function, actions.Deps{
			Injector: i,
			Logger:   logger,
			Tracer:   otel.GetTracerProvider().Tracer(tracerName),
			Counters: do.MustInvoke[*telemetry.Counters](i),
		})
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(health.WithCheckTimeout(cfg.Server.HealthCheckTimeout)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		dispatcher := do.MustInvoke[*function.Dispatcher](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(dispatcher, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.InvocationTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
