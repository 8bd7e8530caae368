package remote

import (
	"context"

	"github.com/jsamuelsen11/go-gcp-functions/internal/app/dummies"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain/dummy"
	"github.com/jsamuelsen11/go-gcp-functions/internal/ports"
)

// Compile-time interface check.
var _ ports.DummyClient = (*DummyClient)(nil)

// DummyClient calls a deployed dummies function. Both function service
// kinds expose the same action names and payloads, so it works against
// either.
type DummyClient struct {
	*Client
	name string
}

// NewDummyClient creates a DummyClient for the function registered under
// name (the action prefix, e.g. "dummies").
func NewDummyClient(client *Client, name string) *DummyClient {
	return &DummyClient{Client: client, name: name}
}

type pageDTO struct {
	Data  []map[string]any `json:"data"`
	Total *int64           `json:"total"`
}

// GetPageByFilter fetches a page of dummies.
func (c *DummyClient) GetPageByFilter(
	ctx context.Context,
	correlationID string,
	filter domain.FilterParams,
	paging domain.PagingParams,
) (domain.DataPage[dummy.Dummy], error) {
	args := make(map[string]any, 2)
	if len(filter) > 0 {
		args["filter"] = filter
	}
	if p := pagingArgs(paging); len(p) > 0 {
		args["paging"] = p
	}

	var dto pageDTO
	if _, err := c.Call(ctx, c.action(dummies.CmdGetDummies), correlationID, args, &dto); err != nil {
		return domain.DataPage[dummy.Dummy]{}, err
	}

	page := domain.DataPage[dummy.Dummy]{
		Data:  make([]dummy.Dummy, 0, len(dto.Data)),
		Total: dto.Total,
	}
	for _, m := range dto.Data {
		page.Data = append(page.Data, dummy.FromMap(m))
	}
	return page, nil
}

// GetOneByID fetches a dummy. It returns nil when the function has none.
func (c *DummyClient) GetOneByID(ctx context.Context, correlationID, id string) (*dummy.Dummy, error) {
	return c.callDummy(ctx, dummies.CmdGetDummyByID, correlationID, map[string]any{"dummy_id": id})
}

// Create stores a new dummy and returns it with its assigned ID.
func (c *DummyClient) Create(ctx context.Context, correlationID string, d dummy.Dummy) (*dummy.Dummy, error) {
	return c.callDummy(ctx, dummies.CmdCreateDummy, correlationID, map[string]any{"dummy": d.ToMap()})
}

// Update replaces a stored dummy. It returns nil when the ID is unknown.
func (c *DummyClient) Update(ctx context.Context, correlationID string, d dummy.Dummy) (*dummy.Dummy, error) {
	return c.callDummy(ctx, dummies.CmdUpdateDummy, correlationID, map[string]any{"dummy": d.ToMap()})
}

// DeleteByID removes a dummy and returns it, or nil when the ID is unknown.
func (c *DummyClient) DeleteByID(ctx context.Context, correlationID, id string) (*dummy.Dummy, error) {
	return c.callDummy(ctx, dummies.CmdDeleteDummy, correlationID, map[string]any{"dummy_id": id})
}

func (c *DummyClient) callDummy(ctx context.Context, cmd, correlationID string, args map[string]any) (*dummy.Dummy, error) {
	var m map[string]any
	found, err := c.Call(ctx, c.action(cmd), correlationID, args, &m)
	if err != nil || !found || m == nil {
		return nil, err
	}
	d := dummy.FromMap(m)
	return &d, nil
}

func (c *DummyClient) action(cmd string) string {
	if c.name == "" {
		return cmd
	}
	return c.name + "." + cmd
}

func pagingArgs(p domain.PagingParams) map[string]any {
	m := make(map[string]any, 3)
	if p.Skip != nil {
		m["skip"] = *p.Skip
	}
	if p.Take != nil {
		m["take"] = *p.Take
	}
	if p.Total {
		m["total"] = true
	}
	return m
}
