package hsmx

import (
	"context"
	"fmt"

	"github.com/statomat/hsmx/pkg/log"
)

// Transition is a directed edge between two nodes. The trigger, guard and
// action are all optional: a transition without a trigger is eligible for
// every event type, and a transition without a guard is always allowed once
// its trigger matches.
type Transition struct {
	from       Node
	to         Node
	trigger    EventType
	hasTrigger bool
	guard      Guard
	action     Handler
}

// TransitionOption configures a transition added via AddTransition.
type TransitionOption func(*Transition)

// On restricts the transition to events of the given type. Without On the
// transition is triggerless and matches any event type.
func On(trigger EventType) TransitionOption {
	return func(t *Transition) {
		t.trigger = trigger
		t.hasTrigger = true
	}
}

// When guards the transition: it only fires for events the guard accepts.
func When(g Guard) TransitionOption {
	return func(t *Transition) {
		t.guard = g
	}
}

// Do attaches an action invoked while the transition fires, after the
// source's exit action and before the target's entry action.
func Do(h Handler) TransitionOption {
	return func(t *Transition) {
		t.action = h
	}
}

// matches reports whether the transition is eligible for evt: the trigger
// is absent or equal to the event type, and the guard is absent or accepts.
func (t *Transition) matches(evt Event) bool {
	if t.hasTrigger && t.trigger != evt.Type {
		return false
	}
	return t.guard == nil || t.guard(evt)
}

func (t *Transition) String() string {
	trigger := "*"
	if t.hasTrigger {
		trigger = string(t.trigger)
	}
	return fmt.Sprintf("%s --%s--> %s", t.from.Name(), trigger, t.to.Name())
}

// resolve scans the node's transitions in declaration order and follows the
// first match, cascading from each target against the same event until no
// transition matches. The node where the scan stops is the resting node.
//
// Firing runs exit, then the transition action, then the target's entry.
// The sequence is not transactional: when the action or entry fails after
// exit has run, the machine rests at the pre-transition node and the error
// is returned alongside it. Unguarded self transitions are rejected at
// construction, which is the only termination bound; a guard chain that
// never rests will spin here.
func resolve(ctx context.Context, node Node, evt Event) (Node, error) {
	logger := log.FromContext(ctx)
	for {
		var match *Transition
		for _, t := range node.outbound() {
			if t.matches(evt) {
				match = t
				break
			}
		}
		if match == nil {
			return node, nil
		}

		logger.Trace("invoking transition",
			log.String("transition", match.String()),
			log.String("event", string(evt.Type)))

		if err := node.exit(ctx); err != nil {
			return node, fmt.Errorf("exit %q: %w", node.Name(), err)
		}
		if match.action != nil {
			if err := match.action(ctx, evt); err != nil {
				return node, fmt.Errorf("transition action %s: %w", match, err)
			}
		}
		if err := match.to.enter(ctx); err != nil {
			return node, fmt.Errorf("enter %q: %w", match.to.Name(), err)
		}

		node = match.to
	}
}
