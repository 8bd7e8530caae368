// Package config provides configuration loading and validation for the function host.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the function host.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Client    ClientConfig    `koanf:"client"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Function  FunctionConfig  `koanf:"function"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// InvocationTimeout bounds a single action call. It must not exceed
	// WriteTimeout, or the composed timeout error could never be sent.
	InvocationTimeout time.Duration `koanf:"invocation_timeout"`

	// ShutdownTimeout bounds draining in-flight invocations on SIGTERM.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// HealthCheckTimeout bounds each readiness check.
	HealthCheckTimeout time.Duration `koanf:"health_check_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ClientConfig holds settings for the remote function client.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds token bucket settings. A zero RequestsPerSecond
// disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
	// SampleRatio is the fraction of root invocations traced, in [0, 1].
	// Invocations that arrive with a sampled parent are always traced.
	SampleRatio float64 `koanf:"sample_ratio"`
}

// FunctionConfig holds settings for the function services and dispatcher.
type FunctionConfig struct {
	// Name is the action namespace. Actions are exposed as "<name>.<action>"
	// when set.
	Name string `koanf:"name"`

	// ValidationPolicy is "return" (compose the validation error into a
	// response) or "throw" (fail the call with the error).
	ValidationPolicy string `koanf:"validation_policy"`

	// Dependencies overrides the service names used to resolve logical
	// dependencies, e.g. dependencies.controller.
	Dependencies map[string]string `koanf:"dependencies"`

	// Services lists the function services to expose: "service" (hand-written
	// actions with request schemas) and/or "commandable" (one action per
	// controller command). Both share the Name namespace, so enabling both
	// exposes duplicate names and the first registered service wins.
	Services []string `koanf:"services"`

	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	Auth           AuthConfig           `koanf:"auth"`
}

// AuthConfig holds settings for the authorization hooks on mutating actions.
type AuthConfig struct {
	Enabled   bool   `koanf:"enabled"`
	JWTSecret string `koanf:"jwt_secret"`
	Issuer    string `koanf:"issuer"`
	Audience  string `koanf:"audience"`

	// Rule is an optional CEL expression evaluated against the token claims
	// and the action name, e.g. `"writer" in claims.roles`.
	Rule string `koanf:"rule"`
}
