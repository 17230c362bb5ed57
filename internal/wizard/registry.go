// Package wizard holds the UV Map Creation Wizard session: the command
// registry that launches it, the open window state, and the restart loop.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// CommandName is the menu path the wizard is registered under.
const CommandName = "Tools/UV Map Creation Wizard"

// Registry errors.
var (
	ErrEmptyCommandName = errors.New("command name is empty")
	ErrNilHandler       = errors.New("command handler is nil")
	ErrDuplicateCommand = errors.New("command already registered")
	ErrUnknownCommand   = errors.New("unknown command")
)

// Handler runs a registered command.
type Handler func(ctx context.Context) error

// Registry maps command names to handlers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a command. Names are unique.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return ErrEmptyCommandName
	}
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.handlers[name] = h
	return nil
}

// Invoke runs the named command.
func (r *Registry) Invoke(ctx context.Context, name string) error {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return h(ctx)
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
