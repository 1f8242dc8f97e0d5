package stockchat

import "encoding/json"

// endOfStreamSentinel is the reserved payload value the backend sends as its
// final frame. It predates the structured stream_end event and is kept for
// wire compatibility; it is handled here and nowhere else.
const endOfStreamSentinel = "[DONE]"

// wireEvent is the JSON shape of a frame payload, discriminated by Type.
type wireEvent struct {
	Type      string          `json:"type"`
	MessageID string          `json:"messageId,omitempty"`
	Content   string          `json:"content,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Message   string          `json:"message,omitempty"`
	Code      string          `json:"code,omitempty"`
}

// DecodeEvent translates a frame payload into an [Event]. It is the single
// point where wire format becomes the internal tagged union.
//
// Malformed payloads and unknown type discriminators return nil: individual
// bad frames are dropped, never fatal, and newer server event types are
// ignored by older clients.
func DecodeEvent(payload string) Event {
	if payload == endOfStreamSentinel {
		return EventStreamEnd{}
	}

	var w wireEvent
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return nil
	}

	switch w.Type {
	case "stream_start":
		return EventStreamStart{MessageID: w.MessageID}
	case "stream_chunk":
		return EventStreamChunk{Content: w.Content}
	case "stream_end":
		return EventStreamEnd{}
	case "ui_language":
		return EventSideChannel{Data: w.Data}
	case "error":
		return EventProtocolError{Message: w.Message, Code: w.Code}
	default:
		return nil
	}
}
