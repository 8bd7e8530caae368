// Package actions contains the inbound function adapters: services that
// expose application use cases as function actions.
package actions

import (
	"context"

	"github.com/jsamuelsen11/go-gcp-functions/internal/app/dummies"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/domain/dummy"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function/schema"
	"github.com/jsamuelsen11/go-gcp-functions/internal/ports"
)

// Action names exposed by DummyService.
const (
	ActionGetDummies   = dummies.CmdGetDummies
	ActionGetDummyByID = dummies.CmdGetDummyByID
	ActionCreateDummy  = dummies.CmdCreateDummy
	ActionUpdateDummy  = dummies.CmdUpdateDummy
	ActionDeleteDummy  = dummies.CmdDeleteDummy
)

// DummyService exposes ports.DummyController through hand-written actions
// whose request bodies are checked against schemas. When an authorize hook
// is set, the mutating actions require it to pass.
type DummyService struct {
	*function.Service

	resolver   *function.DependencyResolver
	authorize  function.Interceptor
	controller ports.DummyController
}

// NewDummyService creates a closed service. The controller is resolved from
// the "controller" dependency on Open.
func NewDummyService(name string, resolver *function.DependencyResolver, authorize function.Interceptor,
	opts ...function.Option,
) *DummyService {
	s := &DummyService{resolver: resolver, authorize: authorize}
	s.Service = function.NewService(name, s, opts...)
	return s
}

// Register resolves the controller and registers the dummy actions.
func (s *DummyService) Register(svc *function.Service) error {
	controller, err := function.Resolve[ports.DummyController](s.resolver, function.ControllerDependency)
	if err != nil {
		return err
	}
	s.controller = controller

	svc.RegisterAction(ActionGetDummies,
		schema.NewRequest().WithBody(schema.NewObject().
			WithOptionalProperty("filter", schema.FilterParams()).
			WithOptionalProperty("paging", schema.PagingParams())),
		s.getPageByFilter)

	svc.RegisterAction(ActionGetDummyByID,
		schema.NewRequest().WithBody(schema.NewObject().
			WithOptionalProperty("dummy_id", schema.String)),
		s.getOneByID)

	s.registerMutation(svc, ActionCreateDummy,
		schema.NewRequest().WithBody(schema.NewObject().
			WithRequiredProperty("dummy", dummies.Schema())),
		s.create)

	s.registerMutation(svc, ActionUpdateDummy,
		schema.NewRequest().WithBody(schema.NewObject().
			WithRequiredProperty("dummy", dummies.Schema())),
		s.update)

	s.registerMutation(svc, ActionDeleteDummy,
		schema.NewRequest().WithBody(schema.NewObject().
			WithRequiredProperty("dummy_id", schema.String)),
		s.deleteByID)

	return nil
}

func (s *DummyService) registerMutation(svc *function.Service, name string, sch function.Schema, action function.ActionFunc) {
	if s.authorize == nil {
		svc.RegisterAction(name, sch, action)
		return
	}
	svc.RegisterActionWithAuth(name, sch, s.authorize, action)
}

func (s *DummyService) getPageByFilter(req *function.Request) (any, error) {
	return s.Instrumented(req, ActionGetDummies, func(ctx context.Context) (any, error) {
		page, err := s.controller.GetPageByFilter(ctx, req.CorrelationID(),
			domain.NewFilterParams(req.Body["filter"]),
			domain.NewPagingParams(req.Body["paging"]),
		)
		if err != nil {
			return nil, err
		}
		return page.ToMap(), nil
	})
}

func (s *DummyService) getOneByID(req *function.Request) (any, error) {
	return s.Instrumented(req, ActionGetDummyByID, func(ctx context.Context) (any, error) {
		id, _ := req.Body["dummy_id"].(string)
		return dummyResult(s.controller.GetOneByID(ctx, req.CorrelationID(), id))
	})
}

func (s *DummyService) create(req *function.Request) (any, error) {
	return s.Instrumented(req, ActionCreateDummy, func(ctx context.Context) (any, error) {
		return dummyResult(s.controller.Create(ctx, req.CorrelationID(), bodyDummy(req)))
	})
}

func (s *DummyService) update(req *function.Request) (any, error) {
	return s.Instrumented(req, ActionUpdateDummy, func(ctx context.Context) (any, error) {
		return dummyResult(s.controller.Update(ctx, req.CorrelationID(), bodyDummy(req)))
	})
}

func (s *DummyService) deleteByID(req *function.Request) (any, error) {
	return s.Instrumented(req, ActionDeleteDummy, func(ctx context.Context) (any, error) {
		id, _ := req.Body["dummy_id"].(string)
		return dummyResult(s.controller.DeleteByID(ctx, req.CorrelationID(), id))
	})
}

func bodyDummy(req *function.Request) dummy.Dummy {
	m, _ := req.Body["dummy"].(map[string]any)
	return dummy.FromMap(m)
}

// dummyResult maps a missing dummy to an empty 204 response.
func dummyResult(d *dummy.Dummy, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if d == nil {
		return function.NoContent(), nil
	}
	return d.ToMap(), nil
}
