package ports

import "context"

// HealthChecker is a component whose readiness gates the function host: the
// dispatcher itself, peer function clients, or anything a service resolves
// from the container.
type HealthChecker interface {
	// Name identifies the component in readiness reports, e.g. "dummies"
	// or "dummies-function".
	Name() string

	// HealthCheck returns nil when the component can serve invocations.
	// The context carries the per-check deadline.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers and runs them for the readiness probe.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every check and returns its error keyed by checker
	// name; healthy components map to nil.
	CheckAll(ctx context.Context) map[string]error
}
