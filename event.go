package queenio

import "fmt"

// Event is a single readiness notification: which registration fired and
// what states it is in.
type Event struct {
	kind  Ready
	token Token
}

// NewEvent builds an Event; mostly useful for in-process event sources
// and tests.
func NewEvent(kind Ready, token Token) Event {
	return Event{kind: kind, token: token}
}

// Readiness returns the readiness states of the event.
func (e Event) Readiness() Ready { return e.kind }

// Token returns the token the handle was registered with.
func (e Event) Token() Token { return e.token }

func (e Event) String() string {
	return fmt.Sprintf("Event{%v, Token(%d)}", e.kind, e.token)
}

// Events is a fixed-capacity buffer of readiness notifications, filled by
// Poll.Wait and reused across calls.
type Events struct {
	events []Event
}

// NewEvents creates an event buffer able to hold up to capacity events
// per Wait call. The capacity is clamped to at least 1, since the kernel
// rejects a zero-length wait buffer.
func NewEvents(capacity int) *Events {
	if capacity < 1 {
		capacity = 1
	}
	return &Events{events: make([]Event, 0, capacity)}
}

// Len returns the number of events from the last Wait.
func (es *Events) Len() int { return len(es.events) }

// Cap returns the buffer capacity.
func (es *Events) Cap() int { return cap(es.events) }

// IsEmpty reports whether the last Wait produced no events.
func (es *Events) IsEmpty() bool { return len(es.events) == 0 }

// Get returns the i-th event of the last Wait. It panics if i is out of
// range, like a slice access.
func (es *Events) Get(i int) Event { return es.events[i] }

func (es *Events) reset() { es.events = es.events[:0] }

func (es *Events) push(e Event) { es.events = append(es.events, e) }
