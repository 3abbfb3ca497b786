package hsmx

// EventType tags an Event with its kind. Applications declare a closed set
// of EventType constants during setup; handler maps and transition triggers
// are keyed by it.
type EventType string

// Event is an immutable value pairing an EventType with an optional payload.
// The engine never mutates an Event after it is delivered; payloads are
// passed through to handlers and guards untouched.
type Event struct {
	Type    EventType
	Payload any
}

// NewEvent returns an Event of the given type carrying payload.
func NewEvent(t EventType, payload any) Event {
	return Event{Type: t, Payload: payload}
}

func (e Event) String() string {
	return string(e.Type)
}
