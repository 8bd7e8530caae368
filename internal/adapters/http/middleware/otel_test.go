package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen11/go-gcp-functions/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/telemetry"
)

// Tests that install a global TracerProvider do not run in parallel.

func setupTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return exporter
}

// routed mounts handler behind the OpenTelemetry middleware on the same
// routes the function router exposes.
func routed(metrics *telemetry.Metrics, handler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CorrelationID(), middleware.OpenTelemetry(metrics))
	r.Post("/", handler)
	r.Post("/{cmd}", handler)
	return r
}

func spanAttrs(t *testing.T, exporter *tracetest.InMemoryExporter) (tracetest.SpanStub, map[string]any) {
	t.Helper()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	attrs := make(map[string]any)
	for _, a := range spans[0].Attributes {
		attrs[string(a.Key)] = a.Value.AsInterface()
	}
	return spans[0], attrs
}

func TestOpenTelemetry_SpanNamedAfterRoute(t *testing.T) {
	exporter := setupTracer(t)

	handler := routed(nil, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/get_dummies", http.NoBody)
	req.Header.Set("X-Correlation-ID", "corr-span")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	span, attrs := spanAttrs(t, exporter)
	if span.Name != "invoke /{cmd}" {
		t.Errorf("span name = %q, want %q", span.Name, "invoke /{cmd}")
	}
	if attrs["http.route"] != "/{cmd}" {
		t.Errorf("http.route = %v, want /{cmd}", attrs["http.route"])
	}
	if attrs["function.command"] != "get_dummies" {
		t.Errorf("function.command = %v, want get_dummies", attrs["function.command"])
	}
	if attrs["function.correlation_id"] != "corr-span" {
		t.Errorf("function.correlation_id = %v, want corr-span", attrs["function.correlation_id"])
	}
}

func TestOpenTelemetry_RootInvocationHasNoCommandAttribute(t *testing.T) {
	exporter := setupTracer(t)

	handler := routed(nil, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", http.NoBody))

	span, attrs := spanAttrs(t, exporter)
	if span.Name != "invoke /" {
		t.Errorf("span name = %q, want %q", span.Name, "invoke /")
	}
	if _, ok := attrs["function.command"]; ok {
		t.Errorf("function.command = %v, want unset", attrs["function.command"])
	}
	if size, ok := attrs["http.response.body.size"].(int64); !ok || size != 2 {
		t.Errorf("http.response.body.size = %v, want 2", attrs["http.response.body.size"])
	}
}

func TestOpenTelemetry_UnroutedRequestUsesPath(t *testing.T) {
	exporter := setupTracer(t)

	handler := middleware.OpenTelemetry(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/raw", http.NoBody))

	span, attrs := spanAttrs(t, exporter)
	if span.Name != "invoke /raw" {
		t.Errorf("span name = %q, want %q", span.Name, "invoke /raw")
	}
	if status, ok := attrs["http.status_code"].(int64); !ok || status != http.StatusNotFound {
		t.Errorf("http.status_code = %v, want %d", attrs["http.status_code"], http.StatusNotFound)
	}
	if span.Status.Code == codes.Error {
		t.Error("span status = Error for a 404, want unset")
	}
}

func TestOpenTelemetry_ServerErrorMarksSpan(t *testing.T) {
	exporter := setupTracer(t)

	handler := routed(nil, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/boom", http.NoBody))

	span, _ := spanAttrs(t, exporter)
	if span.Status.Code != codes.Error {
		t.Errorf("span status code = %v, want Error", span.Status.Code)
	}
}

func TestOpenTelemetry_RecordsServerMetricsByRoute(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := telemetry.NewMetrics(mp, "middleware-test")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	handler := routed(metrics, func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "cmd") == "missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	})
	for _, path := range []string{"/get_dummies", "/create_dummy", "/missing"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, http.NoBody))
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	byResult := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.server.request.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("request total data = %T", m.Data)
			}
			for _, dp := range sum.DataPoints {
				route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
				if route.AsString() != "/{cmd}" {
					t.Errorf("http.route = %q, want /{cmd}", route.AsString())
				}
				result, _ := dp.Attributes.Value(telemetry.AttrResult)
				byResult[result.AsString()] += dp.Value
			}
		}
	}

	if byResult["success"] != 2 || byResult["error"] != 1 {
		t.Errorf("request totals by result = %v, want success=2 error=1", byResult)
	}
}
