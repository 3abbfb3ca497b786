package hsmx

import "context"

// Handler is a side-effecting callback invoked for an event, either as a
// state's internal handler or as a transition action. Handlers run
// synchronously on the draining goroutine; they may re-enter the scheduler
// with Deliver, which appends to the same queue instead of recursing.
// A non-nil error aborts the current drain and surfaces from Deliver.
type Handler func(ctx context.Context, evt Event) error

// Action is an entry or exit behavior. Actions see no event: they belong to
// the state, not to whatever happened to cause its activation.
type Action func(ctx context.Context) error

// State is a named machine vertex owning entry/exit actions, per-event-type
// handlers, an optional default handler, and an ordered transition list.
//
// States are assembled during setup and must not be modified once events
// are being delivered.
type State struct {
	name     string
	entry    Action
	exitFn   Action
	handlers map[EventType]Handler
	fallback Handler

	transitions []*Transition

	// self is the Node identity of this state. For a plain State it is the
	// state itself; for a composite it is the enclosing SubstateMachine, so
	// transitions and self-loop checks see the composite, not the embedded
	// State.
	self Node
}

// StateOption configures a State at construction.
type StateOption func(*State)

// WithEntry sets the entry action, run whenever the state is entered.
func WithEntry(a Action) StateOption {
	return func(s *State) {
		s.entry = a
	}
}

// WithExit sets the exit action, run whenever the state is exited.
func WithExit(a Action) StateOption {
	return func(s *State) {
		s.exitFn = a
	}
}

// WithDefaultHandler sets the handler invoked for events that have no
// internal handler registered. Without one, unhandled events are ignored.
func WithDefaultHandler(h Handler) StateOption {
	return func(s *State) {
		s.fallback = h
	}
}

// NewState creates a state with the given display name. Names are labels
// only; identity is the returned pointer.
func NewState(name string, opts ...StateOption) *State {
	s := &State{
		name:     name,
		handlers: make(map[EventType]Handler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.self = s
	return s
}

// Name returns the state's display name.
func (s *State) Name() string {
	return s.name
}

// AddHandler registers an internal handler for events of the given type,
// replacing any previous handler for that type. Returns the state for
// chaining.
func (s *State) AddHandler(trigger EventType, h Handler) *State {
	s.handlers[trigger] = h
	return s
}

// AddTransition appends an outbound transition to the given target. Options
// set the trigger (On), guard (When) and action (Do). Transitions are tried
// in the order they were added; the first match wins.
//
// AddTransition panics with a *ConfigError when the target is nil or when a
// self transition carries no guard — both are construction-time defects
// that must surface before any event delivery. Returns the state for
// chaining.
func (s *State) AddTransition(to Node, opts ...TransitionOption) *State {
	if to == nil {
		panic(&ConfigError{State: s.name, Err: ErrNilTarget})
	}

	t := &Transition{from: s.self, to: to}
	for _, opt := range opts {
		opt(t)
	}

	if to == s.self && t.guard == nil {
		panic(&ConfigError{State: s.name, Err: ErrUnguardedSelfTransition})
	}

	s.transitions = append(s.transitions, t)
	return s
}

func (s *State) enter(ctx context.Context) error {
	if s.entry != nil {
		return s.entry(ctx)
	}
	return nil
}

func (s *State) exit(ctx context.Context) error {
	if s.exitFn != nil {
		return s.exitFn(ctx)
	}
	return nil
}

func (s *State) outbound() []*Transition {
	return s.transitions
}

// handleEvent dispatches evt to the internal handler for its type, falling
// back to the default handler, or doing nothing when neither exists.
// Handlers never change the active state; the subsequent transition
// resolution does.
func (s *State) handleEvent(ctx context.Context, evt Event) (Node, error) {
	h, ok := s.handlers[evt.Type]
	if !ok {
		h = s.fallback
	}
	if h != nil {
		if err := h(ctx, evt); err != nil {
			return s.self, err
		}
	}
	return resolve(ctx, s.self, evt)
}
