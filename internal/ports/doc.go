// Package ports holds the interfaces that connect function actions to the
// application layer (service ports) and to other deployed functions (client
// ports), plus the health contracts the readiness probe consumes.
package ports
