package hsmx

import "context"

// Node is the capability shared by every vertex of a machine: plain states
// and substate machines both implement it. Transitions connect Nodes, and
// the scheduler's active-state pointer is a Node.
//
// The method set is unexported; the implementations live in this package.
// Node identity is reference-based — two nodes may share a display name but
// are distinct vertices unless they are the same value.
type Node interface {
	// Name returns the display name of the node.
	Name() string

	// handleEvent dispatches evt to the node and resolves transitions,
	// returning the settled resting node. The returned node is valid even
	// when an error is returned: it is where the machine came to rest.
	handleEvent(ctx context.Context, evt Event) (Node, error)

	// enter runs the node's entry behavior.
	enter(ctx context.Context) error

	// exit runs the node's exit behavior.
	exit(ctx context.Context) error

	// outbound returns the node's transitions in declaration order.
	outbound() []*Transition
}
