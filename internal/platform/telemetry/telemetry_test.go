package telemetry_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/config"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	p, err := telemetry.Setup(context.Background(), config.TelemetryConfig{Exporter: "bogus"})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if p.Tracer != nil || p.Meter != nil || p.Metrics != nil {
		t.Errorf("providers = %+v, want all nil", p)
	}
	if p.Counters() == nil {
		t.Error("Counters() = nil, want no-op counters")
	}
	p.Counters().IncrementOne(context.Background(), "unused")
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

// Setup registers global providers, so these tests do not run in parallel.
func TestSetup_Exporters(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		endpoint string
	}{
		{"stdout", telemetry.ExporterStdout, ""},
		{"otlp url", telemetry.ExporterOTLP, "http://localhost:4318"},
		{"otlp https", telemetry.ExporterOTLP, "https://collector.example.com"},
		{"otlp host port", telemetry.ExporterOTLP, "otel-collector:4318"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			p, err := telemetry.Setup(ctx, config.TelemetryConfig{
				Enabled:     true,
				Exporter:    tt.exporter,
				Endpoint:    tt.endpoint,
				ServiceName: "dummies",
				SampleRatio: 1,
			})
			if err != nil {
				t.Fatalf("Setup() error = %v", err)
			}
			t.Cleanup(func() { shutdown(p) })

			if p.Tracer == nil || p.Meter == nil || p.Metrics == nil {
				t.Fatalf("providers = %+v, want all set", p)
			}
			if otel.GetTracerProvider() != p.Tracer {
				t.Error("global tracer provider was not registered")
			}
		})
	}
}

func TestSetup_RegistersPropagators(t *testing.T) {
	ctx := context.Background()

	p, err := telemetry.Setup(ctx, config.TelemetryConfig{
		Enabled: true, Exporter: telemetry.ExporterStdout, ServiceName: "dummies", SampleRatio: 1,
	})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	t.Cleanup(func() { shutdown(p) })

	ctx, span := p.Tracer.Tracer("test").Start(ctx, "invoke")
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if !strings.HasPrefix(carrier.Get("traceparent"), "00-"+span.SpanContext().TraceID().String()) {
		t.Errorf("traceparent = %q, want the span's trace ID", carrier.Get("traceparent"))
	}
}

func TestSetup_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TelemetryConfig
		want string
	}{
		{"unknown exporter", config.TelemetryConfig{Enabled: true, Exporter: "zipkin"}, "unsupported exporter"},
		{"otlp without endpoint", config.TelemetryConfig{Enabled: true, Exporter: telemetry.ExporterOTLP}, "requires an endpoint"},
		{"otlp grpc scheme", config.TelemetryConfig{
			Enabled: true, Exporter: telemetry.ExporterOTLP, Endpoint: "grpc://collector:4317",
		}, "must be http(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := telemetry.Setup(context.Background(), tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Setup() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestNewMetrics_RecordsUnderServiceScope(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := telemetry.NewMetrics(mp, "dummies")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	ctx := context.Background()
	metrics.ServerRequestTotal.Add(ctx, 2)
	metrics.ServerRequestDuration.Record(ctx, 0.25)
	metrics.ClientRequestTotal.Add(ctx, 1)
	metrics.ClientRequestDuration.Record(ctx, 0.5)

	got := collect(t, reader)
	for _, name := range []string{
		"http.server.request.total",
		"http.server.request.duration",
		"http.client.request.total",
		"http.client.request.duration",
	} {
		if _, ok := got[name]; !ok {
			t.Errorf("metric %s was not recorded; got %v", name, keys(got))
		}
	}
}

// shutdown flushes p with a short deadline. Nothing listens on the OTLP
// endpoints, so flush errors are ignored.
func shutdown(p *telemetry.Providers) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
