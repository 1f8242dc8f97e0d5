package stockchat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crucial-sub/stockchat"
)

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    stockchat.Event
	}{
		{
			name:    "stream start",
			payload: `{"type":"stream_start","messageId":"msg_42"}`,
			want:    stockchat.EventStreamStart{MessageID: "msg_42"},
		},
		{
			name:    "stream chunk",
			payload: `{"type":"stream_chunk","content":"삼성전자 주가는"}`,
			want:    stockchat.EventStreamChunk{Content: "삼성전자 주가는"},
		},
		{
			name:    "stream end",
			payload: `{"type":"stream_end"}`,
			want:    stockchat.EventStreamEnd{},
		},
		{
			name:    "done sentinel",
			payload: "[DONE]",
			want:    stockchat.EventStreamEnd{},
		},
		{
			name:    "error event",
			payload: `{"type":"error","message":"rate limited","code":"RATE_LIMIT"}`,
			want:    stockchat.EventProtocolError{Message: "rate limited", Code: "RATE_LIMIT"},
		},
		{
			name:    "error events are non-retryable by default",
			payload: `{"type":"error","message":"bad request"}`,
			want:    stockchat.EventProtocolError{Message: "bad request", Retryable: false},
		},
		{
			name:    "malformed JSON",
			payload: `{"type":"stream_chunk","content":`,
			want:    nil,
		},
		{
			name:    "not JSON at all",
			payload: "<html>502 Bad Gateway</html>",
			want:    nil,
		},
		{
			name:    "unknown type ignored",
			payload: `{"type":"typing_indicator","content":"..."}`,
			want:    nil,
		},
		{
			name:    "empty payload",
			payload: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := stockchat.DecodeEvent(tt.payload)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEvent_SideChannelOpaque(t *testing.T) {
	t.Parallel()
	got := stockchat.DecodeEvent(`{"type":"ui_language","data":{"lang":"ko","theme":"dark"}}`)
	sc, ok := got.(stockchat.EventSideChannel)
	assert.True(t, ok)
	assert.JSONEq(t, `{"lang":"ko","theme":"dark"}`, string(sc.Data))
}
