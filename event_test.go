package stockchat_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crucial-sub/stockchat"
)

func TestEventStreamStart_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e stockchat.Event = stockchat.EventStreamStart{MessageID: "msg_1"}
	assert.NotNil(t, e)
}

func TestEventStreamChunk_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e stockchat.Event = stockchat.EventStreamChunk{Content: "hello"}
	assert.NotNil(t, e)
}

func TestEventStreamEnd_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e stockchat.Event = stockchat.EventStreamEnd{}
	assert.NotNil(t, e)
}

func TestEventSideChannel_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e stockchat.Event = stockchat.EventSideChannel{Data: json.RawMessage(`{"lang":"ko"}`)}
	assert.NotNil(t, e)
}

func TestEventProtocolError_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e stockchat.Event = stockchat.EventProtocolError{Message: "boom", Code: "E42"}
	assert.NotNil(t, e)
}

func TestEventTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	events := []stockchat.Event{
		stockchat.EventStreamStart{MessageID: "msg_1"},
		stockchat.EventStreamChunk{Content: "hello"},
		stockchat.EventStreamEnd{},
		stockchat.EventSideChannel{Data: json.RawMessage(`{}`)},
		stockchat.EventProtocolError{Message: "boom"},
	}
	assert.Len(t, events, 5, "update slice and switch when adding new Event types")
	for _, e := range events {
		switch e.(type) {
		case stockchat.EventStreamStart:
		case stockchat.EventStreamChunk:
		case stockchat.EventStreamEnd:
		case stockchat.EventSideChannel:
		case stockchat.EventProtocolError:
		default:
			t.Fatalf("unexpected event type: %T", e)
		}
	}
}
