package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultFunctionRateLimitBurst = 100
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"server.invocation_timeout":   "9s",
		"server.shutdown_timeout":     "15s",
		"server.health_check_timeout": "2s",

		"log.level":  "info",
		"log.format": "json",

		"client.base_url":                        "http://localhost:8081",
		"client.timeout":                         "30s",
		"client.retry.max_attempts":              defaultRetryMaxAttempts,
		"client.retry.initial_interval":          "100ms",
		"client.retry.max_interval":              "10s",
		"client.retry.multiplier":                defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"client.rate_limit.requests_per_second":  0,
		"client.rate_limit.burst":                1,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.sample_ratio": 1.0,

		"function.name":                            "",
		"function.validation_policy":               "return",
		"function.dependencies.controller":         "dummy.controller",
		"function.services":                        []string{"service"},
		"function.rate_limit.requests_per_second":  0,
		"function.rate_limit.burst":                defaultFunctionRateLimitBurst,
		"function.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"function.circuit_breaker.timeout":         "30s",
		"function.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"function.auth.enabled":                    false,
		"function.auth.jwt_secret":                 "",
		"function.auth.issuer":                     "",
		"function.auth.audience":                   "",
		"function.auth.rule":                       "",
	}
}
