package telemetry

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

func TestNewResource_PlatformAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		want map[attribute.Key]string
		none []attribute.Key
	}{
		{
			name: "local process",
			want: map[attribute.Key]string{semconv.ServiceNameKey: "dummies"},
			none: []attribute.Key{semconv.FaaSNameKey, semconv.CloudPlatformKey},
		},
		{
			name: "cloud run",
			env:  map[string]string{"K_SERVICE": "dummies-svc", "K_REVISION": "dummies-svc-00042"},
			want: map[attribute.Key]string{
				semconv.FaaSNameKey:       "dummies-svc",
				semconv.FaaSVersionKey:    "dummies-svc-00042",
				semconv.CloudProviderKey:  "gcp",
				semconv.CloudPlatformKey:  "gcp_cloud_run",
				semconv.ServiceVersionKey: "dummies-svc-00042",
			},
		},
		{
			name: "cloud functions",
			env:  map[string]string{"K_SERVICE": "dummies", "FUNCTION_TARGET": "Dummies"},
			want: map[attribute.Key]string{semconv.CloudPlatformKey: "gcp_cloud_functions"},
			none: []attribute.Key{semconv.FaaSVersionKey},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := newResource("dummies", func(k string) string { return tt.env[k] })
			if err != nil {
				t.Fatalf("newResource() error = %v", err)
			}

			set := res.Set()
			for key, want := range tt.want {
				if v, ok := set.Value(key); !ok || v.AsString() != want {
					t.Errorf("%s = %q (present %v), want %q", key, v.AsString(), ok, want)
				}
			}
			for _, key := range tt.none {
				if _, ok := set.Value(key); ok {
					t.Errorf("%s is set, want absent", key)
				}
			}
		})
	}
}

func TestOTLPTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		endpoint string
		host     string
		secure   bool
		wantErr  bool
	}{
		{"otel-collector:4318", "otel-collector:4318", false, false},
		{"http://localhost:4318", "localhost:4318", false, false},
		{"https://collector.example.com/v1", "collector.example.com", true, false},
		{"", "", false, true},
		{"grpc://collector:4317", "", false, true},
		{"http://", "", false, true},
	}

	for _, tt := range tests {
		host, secure, err := otlpTarget(tt.endpoint)
		if (err != nil) != tt.wantErr {
			t.Errorf("otlpTarget(%q) error = %v, wantErr %v", tt.endpoint, err, tt.wantErr)
			continue
		}
		if host != tt.host || secure != tt.secure {
			t.Errorf("otlpTarget(%q) = %q, %v; want %q, %v", tt.endpoint, host, secure, tt.host, tt.secure)
		}
	}
}
