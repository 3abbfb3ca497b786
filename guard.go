package hsmx

// Guard is a pure predicate over an event, gating transition eligibility.
// Guards must not have side effects visible to the engine; they may be
// evaluated any number of times while resolving a single event.
type Guard func(evt Event) bool

// And composes two guards with short-circuit logical AND: r is not
// evaluated when l rejects. The operands are not modified.
func And(l, r Guard) Guard {
	return func(evt Event) bool {
		return l(evt) && r(evt)
	}
}

// Or composes two guards with short-circuit logical OR: r is not evaluated
// when l accepts.
func Or(l, r Guard) Guard {
	return func(evt Event) bool {
		return l(evt) || r(evt)
	}
}

// Not negates a guard.
func Not(g Guard) Guard {
	return func(evt Event) bool {
		return !g(evt)
	}
}

// Xor composes two guards with logical XOR: true iff exactly one accepts.
// Both operands are always evaluated; exclusive-or cannot short-circuit.
func Xor(l, r Guard) Guard {
	return func(evt Event) bool {
		return l(evt) != r(evt)
	}
}
