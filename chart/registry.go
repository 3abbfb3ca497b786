package chart

import (
	"fmt"

	"github.com/statomat/hsmx"
)

// Registry binds the names used in a chart definition to Go callbacks.
// Guards, handlers and actions live in separate namespaces, so a guard and
// an action may share a name.
type Registry struct {
	guards   map[string]hsmx.Guard
	handlers map[string]hsmx.Handler
	actions  map[string]hsmx.Action
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		guards:   make(map[string]hsmx.Guard),
		handlers: make(map[string]hsmx.Handler),
		actions:  make(map[string]hsmx.Action),
	}
}

// RegisterGuard binds name to g, replacing any previous binding. Returns
// the registry for chaining.
func (r *Registry) RegisterGuard(name string, g hsmx.Guard) *Registry {
	r.guards[name] = g
	return r
}

// RegisterHandler binds name to h for use as an event handler or
// transition action.
func (r *Registry) RegisterHandler(name string, h hsmx.Handler) *Registry {
	r.handlers[name] = h
	return r
}

// RegisterAction binds name to a for use as a state entry or exit action.
func (r *Registry) RegisterAction(name string, a hsmx.Action) *Registry {
	r.actions[name] = a
	return r
}

func (r *Registry) guard(name string) (hsmx.Guard, error) {
	g, ok := r.guards[name]
	if !ok {
		return nil, fmt.Errorf("guard %q: %w", name, ErrUnknownRef)
	}
	return g, nil
}

func (r *Registry) handler(name string) (hsmx.Handler, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("handler %q: %w", name, ErrUnknownRef)
	}
	return h, nil
}

func (r *Registry) action(name string) (hsmx.Action, error) {
	a, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("action %q: %w", name, ErrUnknownRef)
	}
	return a, nil
}
