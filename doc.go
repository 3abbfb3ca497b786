// Package hsmx implements a hierarchical finite state machine engine with
// run-to-completion event processing.
//
// A machine is assembled from States connected by ordered Transitions and is
// driven by a Scheduler. Delivering an event appends it to a FIFO queue; the
// first goroutine to claim the scheduler drains the queue, dispatching each
// event to the active state and following matching transitions until the
// machine rests. One event is always fully processed, including any chain of
// cascading transitions, before the next begins.
//
// States own entry and exit actions, per-event-type handlers with an optional
// default, and an ordered transition list where the first match wins. Guards
// gate transition eligibility and compose with And, Or, Not and Xor. A
// SubstateMachine nests a child machine inside a state, delegating event
// handling to its active child before evaluating its own transitions.
//
// The engine keeps no global state: tracing goes through an injected
// pkg/log.Logger and the pending-event buffer is a replaceable Queue
// collaborator. States, transitions, guards and handlers are built once
// during setup and must not be mutated after the first Deliver call.
package hsmx
