package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Client.validate(),
		c.Telemetry.validate(),
		c.Function.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	switch {
	case s.InvocationTimeout <= 0:
		errs = append(errs, errors.New("server.invocation_timeout must be positive"))
	case s.WriteTimeout > 0 && s.InvocationTimeout > s.WriteTimeout:
		errs = append(errs, fmt.Errorf("server.invocation_timeout (%s) must not exceed server.write_timeout (%s)",
			s.InvocationTimeout, s.WriteTimeout))
	}
	if s.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if s.HealthCheckTimeout <= 0 {
		errs = append(errs, errors.New("server.health_check_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "trace", "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: trace, debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text", "gcp":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text, gcp; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate() error {
	var errs []error

	if cl.BaseURL == "" {
		errs = append(errs, errors.New("client.base_url must not be empty"))
	}
	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("client.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("client.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("client.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}
	errs = append(errs, cl.RateLimit.validate("client.rate_limit"))

	return errors.Join(errs...)
}

func (r *RateLimitConfig) validate(prefix string) error {
	if r.RequestsPerSecond < 0 {
		return fmt.Errorf("%s.requests_per_second must not be negative, got %f", prefix, r.RequestsPerSecond)
	}
	if r.RequestsPerSecond > 0 && r.Burst < 1 {
		return fmt.Errorf("%s.burst must be >= 1 when limiting is enabled, got %d", prefix, r.Burst)
	}
	return nil
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}
	if t.SampleRatio < 0 || t.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be within [0, 1], got %g", t.SampleRatio))
	}

	return errors.Join(errs...)
}

func (f *FunctionConfig) validate() error {
	var errs []error

	switch f.ValidationPolicy {
	case "return", "throw":
		// Valid policies.
	default:
		errs = append(errs, fmt.Errorf("function.validation_policy must be one of: return, throw; got %q",
			f.ValidationPolicy))
	}

	if strings.TrimSpace(f.Dependencies["controller"]) == "" {
		errs = append(errs, errors.New("function.dependencies.controller must not be empty"))
	}

	if len(f.Services) == 0 {
		errs = append(errs, errors.New("function.services must list at least one service"))
	}
	for _, svc := range f.Services {
		switch svc {
		case "service", "commandable":
			// Valid services.
		default:
			errs = append(errs, fmt.Errorf("function.services entries must be one of: service, commandable; got %q", svc))
		}
	}

	errs = append(errs, f.RateLimit.validate("function.rate_limit"))

	if f.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("function.circuit_breaker.max_failures must be >= 1, got %d",
			f.CircuitBreaker.MaxFailures))
	}

	if f.Auth.Enabled && f.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("function.auth.jwt_secret must not be empty when auth is enabled"))
	}

	return errors.Join(errs...)
}
