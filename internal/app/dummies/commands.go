package dummies

import (
	"context"

	"github.com/jsamuelsen11/go-gcp-functions/internal/commands"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain/dummy"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function/schema"
	"github.com/jsamuelsen11/go-gcp-functions/internal/ports"
)

// Command names.
const (
	CmdGetDummies   = "get_dummies"
	CmdGetDummyByID = "get_dummy_by_id"
	CmdCreateDummy  = "create_dummy"
	CmdUpdateDummy  = "update_dummy"
	CmdDeleteDummy  = "delete_dummy"
)

// Schema returns the object schema of a Dummy.
func Schema() *schema.ObjectSchema {
	return schema.NewObject().
		WithOptionalProperty("id", schema.String).
		WithRequiredProperty("key", schema.String).
		WithRequiredProperty("content", schema.String)
}

// NewCommandSet builds the Dummy command set over controller.
func NewCommandSet(controller ports.DummyController) *commands.CommandSet {
	set := commands.NewCommandSet()
	set.AddCommands(
		commands.New(CmdGetDummies,
			schema.NewObject().
				WithOptionalProperty("filter", schema.FilterParams()).
				WithOptionalProperty("paging", schema.PagingParams()),
			func(ctx context.Context, correlationID string, args commands.Parameters) (any, error) {
				filter, _ := args.Get("filter")
				paging, _ := args.Get("paging")
				return controller.GetPageByFilter(ctx, correlationID,
					domain.NewFilterParams(filter), domain.NewPagingParams(paging))
			}),
		commands.New(CmdGetDummyByID,
			schema.NewObject().WithRequiredProperty("dummy_id", schema.String),
			func(ctx context.Context, correlationID string, args commands.Parameters) (any, error) {
				return controller.GetOneByID(ctx, correlationID, args.GetString("dummy_id"))
			}),
		commands.New(CmdCreateDummy,
			schema.NewObject().WithRequiredProperty("dummy", Schema()),
			func(ctx context.Context, correlationID string, args commands.Parameters) (any, error) {
				return controller.Create(ctx, correlationID, dummy.FromMap(args.GetMap("dummy")))
			}),
		commands.New(CmdUpdateDummy,
			schema.NewObject().WithRequiredProperty("dummy", Schema()),
			func(ctx context.Context, correlationID string, args commands.Parameters) (any, error) {
				return controller.Update(ctx, correlationID, dummy.FromMap(args.GetMap("dummy")))
			}),
		commands.New(CmdDeleteDummy,
			schema.NewObject().WithRequiredProperty("dummy_id", schema.String),
			func(ctx context.Context, correlationID string, args commands.Parameters) (any, error) {
				return controller.DeleteByID(ctx, correlationID, args.GetString("dummy_id"))
			}),
	)
	return set
}
