package stockchat

import "encoding/json"

// Event is a sealed interface representing a decoded stream event.
// Events are purely semantic. Transport failures come from error returns,
// not from events; the one exception is [EventProtocolError], which carries
// an application-level error sent by the server inside the stream.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventStreamStart signals the beginning of an assistant response.
type EventStreamStart struct {
	MessageID string
}

func (EventStreamStart) event() {}

// EventStreamChunk carries an incremental piece of assistant text.
type EventStreamChunk struct {
	Content string
}

func (EventStreamChunk) event() {}

// EventStreamEnd signals normal completion of the response.
type EventStreamEnd struct{}

func (EventStreamEnd) event() {}

// EventSideChannel carries UI-directed structured data. The payload is
// opaque to this package and forwarded to the event handler as-is.
type EventSideChannel struct {
	Data json.RawMessage
}

func (EventSideChannel) event() {}

// EventProtocolError is an application-level error reported by the server
// inside the stream. Retryable errors are subject to the reconnect policy;
// non-retryable errors terminate the session.
type EventProtocolError struct {
	Message   string
	Code      string
	Retryable bool
}

func (EventProtocolError) event() {}

// Interface compliance checks.
var (
	_ Event = EventStreamStart{}
	_ Event = EventStreamChunk{}
	_ Event = EventStreamEnd{}
	_ Event = EventSideChannel{}
	_ Event = EventProtocolError{}
)
