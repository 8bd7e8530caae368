package function

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jsamuelsen11/go-gcp-functions/internal/commands"
)

// ControllerDependency is the logical name of the dependency that provides
// the command set.
const ControllerDependency = "controller"

// Mapper is implemented by results that convert themselves to their wire
// map, including pages of such results.
type Mapper interface {
	ToMap() map[string]any
}

// CommandableService registers one action per command of the controller
// resolved from the "controller" dependency. Commands carry their own
// schemas; actions get no extra validation or authorization.
type CommandableService struct {
	*Service
	resolver *DependencyResolver
}

// NewCommandableService creates a closed commandable service.
func NewCommandableService(name string, resolver *DependencyResolver, opts ...Option) *CommandableService {
	c := &CommandableService{resolver: resolver}
	c.Service = NewService(name, c, opts...)
	return c
}

// Register resolves the controller and registers its commands.
func (c *CommandableService) Register(s *Service) error {
	controller, err := Resolve[commands.Commandable](c.resolver, ControllerDependency)
	if err != nil {
		return err
	}

	set := controller.CommandSet()
	if set == nil {
		return fmt.Errorf("controller of service %q has no command set", s.Name())
	}
	for _, cmd := range set.Commands() {
		s.RegisterAction(cmd.Name(), nil, commandAction(s, cmd))
	}
	return nil
}

func commandAction(s *Service, cmd commands.Command) ActionFunc {
	return func(req *Request) (any, error) {
		correlationID := req.CorrelationID()
		args := req.Parameters()

		result, err := s.Instrumented(req, cmd.Name(), func(ctx context.Context) (any, error) {
			return cmd.Execute(ctx, correlationID, args)
		})
		if err != nil {
			return ComposeError(err), nil
		}
		return NormalizeResult(result), nil
	}
}

// NormalizeResult converts a command result into a response value:
//   - nil and typed nil pointers become 204;
//   - nil maps and slices pass through like any other collection;
//   - a *Response, primitives, maps, slices, and bytes pass through;
//   - a Mapper is converted with ToMap;
//   - anything else is left for JSON encoding.
func NormalizeResult(result any) any {
	if isNil(result) {
		return NoContent()
	}

	switch v := result.(type) {
	case *Response, string, []byte, bool,
		int, int32, int64, float32, float64,
		map[string]any, []any:
		return v
	case Mapper:
		return v.ToMap()
	default:
		return v
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		return rv.IsNil()
	default:
		return false
	}
}
