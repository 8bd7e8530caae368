// Package telemetry sets up OpenTelemetry for a function host and holds the
// instruments shared by the HTTP adapter, the outbound client, and action
// instrumentation.
//
//	providers, err := telemetry.Setup(ctx, cfg.Telemetry)
//	defer providers.Shutdown(ctx)
//
//	providers.Metrics.ServerRequestTotal.Add(ctx, 1, ...)
//	providers.Counters().IncrementOne(ctx, "dummies.get_dummies.exec_count")
//
// Setup registers the tracer provider, meter provider, and W3C propagators
// globally. When telemetry is disabled it registers nothing and returns
// empty providers, whose Counters record nothing and whose Metrics is nil.
//
// Resources carry the configured service name plus the faas.* and cloud.*
// attributes derived from the K_SERVICE, K_REVISION, and FUNCTION_TARGET
// variables the Cloud Functions and Cloud Run runtimes set.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
)

// Supported exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

const instrumentationScope = "github.com/jsamuelsen11/go-gcp-functions"

// Attribute keys for metric labels.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
)

// Metrics holds the HTTP server and client instruments.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter
}

// Providers owns the SDK providers created by Setup. Every field is nil when
// telemetry is disabled.
type Providers struct {
	Tracer  *sdktrace.TracerProvider
	Meter   *sdkmetric.MeterProvider
	Metrics *Metrics
}

// exporterPair builds the span and metric exporters for one backend.
type exporterPair struct {
	spans   func(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error)
	metrics func(ctx context.Context, endpoint string) (sdkmetric.Exporter, error)
}

var exporters = map[string]exporterPair{
	ExporterStdout: {
		spans: func(context.Context, string) (sdktrace.SpanExporter, error) {
			return stdouttrace.New(stdouttrace.WithPrettyPrint())
		},
		metrics: func(context.Context, string) (sdkmetric.Exporter, error) {
			return stdoutmetric.New()
		},
	},
	ExporterOTLP: {
		spans: func(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
			host, secure, err := otlpTarget(endpoint)
			if err != nil {
				return nil, err
			}
			opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
			if !secure {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
			return otlptracehttp.New(ctx, opts...)
		},
		metrics: func(ctx context.Context, endpoint string) (sdkmetric.Exporter, error) {
			host, secure, err := otlpTarget(endpoint)
			if err != nil {
				return nil, err
			}
			opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
			if !secure {
				opts = append(opts, otlpmetrichttp.WithInsecure())
			}
			return otlpmetrichttp.New(ctx, opts...)
		},
	},
}

var errEmptyEndpoint = errors.New("otlp exporter requires an endpoint")

// Setup creates the providers described by cfg and registers them globally.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Providers, error) {
	if !cfg.Enabled {
		return &Providers{}, nil
	}

	pair, ok := exporters[cfg.Exporter]
	if !ok {
		return nil, fmt.Errorf("unsupported exporter %q", cfg.Exporter)
	}

	res, err := newResource(cfg.ServiceName, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spanExporter, err := pair.spans(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}
	metricExporter, err := pair.metrics(ctx, cfg.Endpoint)
	if err != nil {
		_ = spanExporter.Shutdown(ctx)
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	p := &Providers{
		Tracer: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(spanExporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		),
		Meter: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
			sdkmetric.WithResource(res),
		),
	}

	p.Metrics, err = NewMetrics(p.Meter, cfg.ServiceName)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(p.Tracer)
	otel.SetMeterProvider(p.Meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// Counters returns per-operation counters on the meter provider.
func (p *Providers) Counters() *Counters {
	if p.Meter == nil {
		return NoopCounters()
	}
	return NewCounters(p.Meter)
}

// Shutdown flushes and stops both providers. Safe on empty providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		if err := p.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if p.Meter != nil {
		if err := p.Meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// NewMetrics registers the HTTP server and client instruments on mp, scoped
// to serviceName or to the module path when serviceName is empty.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	scope := serviceName
	if scope == "" {
		scope = instrumentationScope
	}
	meter := mp.Meter(scope)

	var (
		m    Metrics
		errs []error
	)
	histogram := func(dst *metric.Float64Histogram, name, desc string) {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		*dst = h
	}
	counter := func(dst *metric.Int64Counter, name, desc string) {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{request}"))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		*dst = c
	}

	histogram(&m.ServerRequestDuration, "http.server.request.duration", "Duration of function invocations")
	counter(&m.ServerRequestTotal, "http.server.request.total", "Function invocations received")
	histogram(&m.ClientRequestDuration, "http.client.request.duration", "Duration of calls to peer functions")
	counter(&m.ClientRequestTotal, "http.client.request.total", "Calls made to peer functions")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// newResource describes this process. getenv supplies the platform
// variables.
func newResource(serviceName string, getenv func(string) string) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(serviceName)}

	if svc := getenv("K_SERVICE"); svc != "" {
		attrs = append(attrs, semconv.CloudProviderGCP, semconv.FaaSName(svc))
		if getenv("FUNCTION_TARGET") != "" {
			attrs = append(attrs, semconv.CloudPlatformGCPCloudFunctions)
		} else {
			attrs = append(attrs, semconv.CloudPlatformGCPCloudRun)
		}
	}
	if rev := getenv("K_REVISION"); rev != "" {
		attrs = append(attrs, semconv.FaaSVersion(rev), semconv.ServiceVersion(rev))
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

// otlpTarget splits an endpoint into the host:port the OTLP exporters take
// and whether TLS is used. Bare "host:port" values are plain HTTP.
func otlpTarget(endpoint string) (string, bool, error) {
	if endpoint == "" {
		return "", false, errEmptyEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, false, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parsing otlp endpoint: %w", err)
	}
	if !slices.Contains([]string{"http", "https"}, u.Scheme) || u.Host == "" {
		return "", false, fmt.Errorf("otlp endpoint %q must be http(s)://host:port or host:port", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}
