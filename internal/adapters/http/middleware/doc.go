// Package middleware holds the inbound pipeline that wraps the function
// dispatcher. The router installs it in this order:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → dispatcher
//
// Status codes and response sizes are observed through chi's
// WrapResponseWriter, and the matched chi route names spans and metrics so
// that /{cmd} invocations do not explode label cardinality.
package middleware
