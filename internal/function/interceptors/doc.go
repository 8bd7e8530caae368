// Package interceptors provides function.Interceptor implementations shared
// by every function service: logging, panic recovery, correlation ids, rate
// limiting, and circuit breaking.
//
// Interceptors run in registration order, the first one being the outermost:
//
//	s.RegisterInterceptor(interceptors.Recovery(logger))
//	s.RegisterInterceptor(interceptors.CorrelationID())
//	s.RegisterInterceptor(interceptors.Logging(logger))
//	s.RegisterInterceptor(interceptors.RateLimit(cfg.RateLimit))
package interceptors
