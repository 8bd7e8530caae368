// Package dummies implements the Dummy use cases: an in-memory controller and
// the command set that exposes it to commandable function services.
package dummies

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-gcp-functions/internal/commands"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain/dummy"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
	"github.com/jsamuelsen11/go-gcp-functions/internal/ports"
)

// Compile-time checks.
var (
	_ ports.DummyController = (*Controller)(nil)
	_ commands.Commandable  = (*Controller)(nil)
)

// Controller implements ports.DummyController over an in-memory store that
// keeps insertion order. Safe for concurrent use.
type Controller struct {
	logger *slog.Logger

	mu      sync.RWMutex
	entries []dummy.Dummy

	commandsOnce sync.Once
	commandSet   *commands.CommandSet
}

// NewController creates an empty controller. A nil logger discards output.
func NewController(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Controller{logger: logger}
}

// CommandSet returns the controller's command set, built on first use.
func (c *Controller) CommandSet() *commands.CommandSet {
	c.commandsOnce.Do(func() {
		c.commandSet = NewCommandSet(c)
	})
	return c.commandSet
}

// GetPageByFilter returns the dummies whose key matches the "key" filter,
// skipping and taking per paging. The total is computed only when asked for.
func (c *Controller) GetPageByFilter(ctx context.Context, correlationID string, filter domain.FilterParams,
	paging domain.PagingParams,
) (domain.DataPage[dummy.Dummy], error) {
	c.logger.DebugContext(ctx, "listing dummies",
		slog.String("correlation_id", correlationID),
		slog.Any("filter", filter),
	)

	key, byKey := filter.Get("key")

	c.mu.RLock()
	matched := make([]dummy.Dummy, 0, len(c.entries))
	for _, d := range c.entries {
		if byKey && d.Key != key {
			continue
		}
		matched = append(matched, d)
	}
	c.mu.RUnlock()

	skip := paging.SkipOr(0)
	take := paging.TakeOr(domain.DefaultTake)

	page := domain.DataPage[dummy.Dummy]{Data: []dummy.Dummy{}}
	if paging.Total {
		total := int64(len(matched))
		page.Total = &total
	}
	if skip >= int64(len(matched)) {
		return page, nil
	}
	end := min(skip+take, int64(len(matched)))
	page.Data = matched[skip:end]
	return page, nil
}

// GetOneByID returns the dummy with the given id, or nil.
func (c *Controller) GetOneByID(ctx context.Context, correlationID, id string) (*dummy.Dummy, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		d := c.entries[i]
		return &d, nil
	}

	c.logger.DebugContext(ctx, "dummy not found",
		slog.String("correlation_id", correlationID),
		slog.String("id", id),
	)
	return nil, nil
}

// Create validates and stores d, generating an id when d has none.
func (c *Controller) Create(ctx context.Context, correlationID string, d dummy.Dummy) (*dummy.Dummy, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(d.ID) >= 0 {
		return nil, domain.NewConflictError("DUMMY_EXISTS", fmt.Sprintf("dummy %s already exists", d.ID)).
			WithDetails("id", d.ID)
	}
	c.entries = append(c.entries, d)

	c.logger.InfoContext(ctx, "dummy created",
		slog.String("correlation_id", correlationID),
		slog.String("id", d.ID),
	)
	return &d, nil
}

// Update replaces the dummy with d.ID. Returns nil when it does not exist.
func (c *Controller) Update(ctx context.Context, correlationID string, d dummy.Dummy) (*dummy.Dummy, error) {
	if d.ID == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{"id": domain.MsgRequired}}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(d.ID)
	if i < 0 {
		return nil, nil
	}
	c.entries[i] = d

	c.logger.InfoContext(ctx, "dummy updated",
		slog.String("correlation_id", correlationID),
		slog.String("id", d.ID),
	)
	return &d, nil
}

// DeleteByID removes the dummy with id and returns it, or nil.
func (c *Controller) DeleteByID(ctx context.Context, correlationID, id string) (*dummy.Dummy, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	d := c.entries[i]
	c.entries = append(c.entries[:i], c.entries[i+1:]...)

	c.logger.InfoContext(ctx, "dummy deleted",
		slog.String("correlation_id", correlationID),
		slog.String("id", id),
	)
	return &d, nil
}

// indexOf must be called with mu held.
func (c *Controller) indexOf(id string) int {
	for i, d := range c.entries {
		if d.ID == id {
			return i
		}
	}
	return -1
}
