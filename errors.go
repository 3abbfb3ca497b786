package hsmx

import (
	"errors"
	"fmt"
)

var (
	// ErrNilStartState is returned by New when no start state is given.
	ErrNilStartState = errors.New("hsmx: start state cannot be nil")

	// ErrNilTarget reports a transition without a target state.
	ErrNilTarget = errors.New("hsmx: transition target cannot be nil")

	// ErrUnguardedSelfTransition reports a self transition with no guard,
	// which would cascade forever once taken.
	ErrUnguardedSelfTransition = errors.New("hsmx: unguarded self transition would never terminate")

	// ErrNilInitialChild reports a substate machine without an initial child.
	ErrNilInitialChild = errors.New("hsmx: substate machine requires an initial child")

	// ErrQueueFull is returned by bounded queues when an event cannot be
	// enqueued without exceeding capacity.
	ErrQueueFull = errors.New("hsmx: event queue full")
)

// ConfigError reports an invalid machine configuration detected while the
// machine is being assembled, before any event delivery. Construction
// helpers panic with a *ConfigError since a malformed machine is a
// programmer error, not a runtime condition.
type ConfigError struct {
	State string // name of the state being configured
	Err   error
}

func (e *ConfigError) Error() string {
	if e.State == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("state %q: %v", e.State, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
