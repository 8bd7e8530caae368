package ports

import (
	"context"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain/dummy"
)

// DummyController defines the service port for Dummy operations.
// Implemented by the application layer; called by the function action
// adapters. Lookups of unknown ids return nil without an error.
type DummyController interface {
	// GetPageByFilter returns the dummies matching filter, windowed by paging.
	// The "key" filter matches exactly.
	GetPageByFilter(ctx context.Context, correlationID string, filter domain.FilterParams,
		paging domain.PagingParams) (domain.DataPage[dummy.Dummy], error)

	// GetOneByID returns the dummy with the given id, or nil.
	GetOneByID(ctx context.Context, correlationID, id string) (*dummy.Dummy, error)

	// Create stores a new dummy. An id is generated when none is given.
	// Returns domain.ErrValidation if the dummy fails validation and
	// domain.ErrConflict if the id is taken.
	Create(ctx context.Context, correlationID string, d dummy.Dummy) (*dummy.Dummy, error)

	// Update replaces the stored dummy with the same id and returns it, or
	// nil when no such dummy exists.
	Update(ctx context.Context, correlationID string, d dummy.Dummy) (*dummy.Dummy, error)

	// DeleteByID removes a dummy and returns it, or nil when none matched.
	DeleteByID(ctx context.Context, correlationID, id string) (*dummy.Dummy, error)
}
