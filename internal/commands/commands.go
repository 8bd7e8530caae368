// Package commands defines the application command contract: named commands
// with an optional parameter schema, grouped into command sets that
// controllers expose for automatic registration as function actions.
package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
)

// Validator checks a parameter set. Implemented by schema.ObjectSchema.
type Validator interface {
	Validate(value any) error
}

// Command is a named application operation.
type Command interface {
	// Name returns the unique command name within its set.
	Name() string

	// Execute runs the command with the given arguments. A nil result means
	// "nothing to return".
	Execute(ctx context.Context, correlationID string, args Parameters) (any, error)
}

// ExecuteFunc is the body of a command.
type ExecuteFunc func(ctx context.Context, correlationID string, args Parameters) (any, error)

// Commandable is implemented by controllers that expose their operations as
// a command set.
type Commandable interface {
	CommandSet() *CommandSet
}

type command struct {
	name   string
	schema Validator
	fn     ExecuteFunc
}

// New creates a command. When schema is non-nil the arguments are validated
// before fn runs; a failing check returns the validation error and fn is not
// called.
func New(name string, schema Validator, fn ExecuteFunc) Command {
	return &command{name: name, schema: schema, fn: fn}
}

func (c *command) Name() string {
	return c.name
}

func (c *command) Execute(ctx context.Context, correlationID string, args Parameters) (any, error) {
	if c.schema != nil {
		if err := c.schema.Validate(map[string]any(args)); err != nil {
			return nil, err
		}
	}
	return c.fn(ctx, correlationID, args)
}

// CommandSet is an ordered collection of commands indexed by name.
// Safe for concurrent use.
type CommandSet struct {
	mu       sync.RWMutex
	commands []Command
	byName   map[string]Command
}

// NewCommandSet creates an empty command set.
func NewCommandSet() *CommandSet {
	return &CommandSet{byName: make(map[string]Command)}
}

// AddCommand appends a command. A command with a name already in the set
// replaces the lookup entry but keeps both in Commands order.
func (s *CommandSet) AddCommand(c Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, c)
	s.byName[c.Name()] = c
}

// AddCommands appends several commands in order.
func (s *CommandSet) AddCommands(cs ...Command) {
	for _, c := range cs {
		s.AddCommand(c)
	}
}

// AddCommandSet appends every command of other.
func (s *CommandSet) AddCommandSet(other *CommandSet) {
	s.AddCommands(other.Commands()...)
}

// Commands returns the commands in insertion order.
func (s *CommandSet) Commands() []Command {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Command, len(s.commands))
	copy(out, s.commands)
	return out
}

// FindCommand returns the command with the given name, or nil.
func (s *CommandSet) FindCommand(name string) Command {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byName[name]
}

// Execute runs the named command. An unknown name is a bad request.
func (s *CommandSet) Execute(ctx context.Context, correlationID, name string, args Parameters) (any, error) {
	c := s.FindCommand(name)
	if c == nil {
		return nil, domain.NewBadRequestError("CMD_NOT_FOUND",
			fmt.Sprintf("requested command %q does not exist", name)).
			WithDetails("command", name)
	}
	return c.Execute(ctx, correlationID, args)
}
