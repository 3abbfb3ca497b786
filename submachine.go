package hsmx

import (
	"context"
	"sync"
)

// SubstateMachine is a State owning a nested child machine. Events are
// delegated to the active child — recursively, for nested composites —
// before the machine's own transitions are evaluated. The child's internal
// state is meaningful only while the composite itself is active: when the
// composite is exited, the active child is cleared, and the next entry
// starts again from the initial child.
type SubstateMachine struct {
	State

	initial Node

	mu     sync.RWMutex
	active Node
}

// NewSubstateMachine creates a composite state that activates initial when
// entered. State options configure the composite's own entry/exit actions
// and default handler, exactly as for a plain state.
//
// Panics with a *ConfigError when initial is nil.
func NewSubstateMachine(name string, initial Node, opts ...StateOption) *SubstateMachine {
	if initial == nil {
		panic(&ConfigError{State: name, Err: ErrNilInitialChild})
	}

	m := &SubstateMachine{
		State: State{
			name:     name,
			handlers: make(map[EventType]Handler),
		},
		initial: initial,
	}
	for _, opt := range opts {
		opt(&m.State)
	}
	m.self = m
	return m
}

// Current returns the active child, or nil when the composite has not been
// entered (or has been exited since).
func (m *SubstateMachine) Current() Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

func (m *SubstateMachine) setActive(n Node) {
	m.mu.Lock()
	m.active = n
	m.mu.Unlock()
}

// enter runs the composite's own entry action and then enters the initial
// child, recursing through nested composites down to a leaf.
func (m *SubstateMachine) enter(ctx context.Context) error {
	if err := m.State.enter(ctx); err != nil {
		return err
	}
	m.setActive(m.initial)
	return m.initial.enter(ctx)
}

// exit exits the child subtree innermost-first, then runs the composite's
// own exit action, and finally clears the active child.
func (m *SubstateMachine) exit(ctx context.Context) error {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()

	if active != nil {
		if err := active.exit(ctx); err != nil {
			return err
		}
	}
	if err := m.State.exit(ctx); err != nil {
		return err
	}
	m.setActive(nil)
	return nil
}

// handleEvent delegates the full handle/resolve cycle to the active child
// and records where the child subtree settled. Only once the child rests
// does the composite evaluate its own outbound transitions against the
// same event, identically to a plain state.
func (m *SubstateMachine) handleEvent(ctx context.Context, evt Event) (Node, error) {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()

	if active != nil {
		settled, err := active.handleEvent(ctx, evt)
		m.setActive(settled)
		if err != nil {
			return m, err
		}
	}
	return resolve(ctx, m, evt)
}
