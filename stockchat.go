// Package stockchat implements a resilient streaming client for the
// Stock-Lab conversational backend.
//
// A [Client] runs one logical conversational turn at a time: it opens a
// server-driven text/event-stream request, parses frames out of the raw byte
// stream, dispatches decoded events in arrival order, and recovers from
// transient failures with bounded, jittered exponential backoff. Cancellation
// flows through the context passed to [Client.SendMessage] and through
// [Client.Abort].
package stockchat

import (
	"context"
	"io"
)

// Request carries the outbound message for a single transport connection.
// The same SessionID and Message are resubmitted on every reconnect attempt
// of a logical turn.
type Request struct {
	SessionID string
	Message   string
}

// Transport opens one streaming connection to the chat backend. The returned
// body is the raw event-stream; the caller owns it and must close it. Open
// must honor ctx cancellation both while connecting and while the body is
// being read.
type Transport interface {
	Open(ctx context.Context, req Request) (io.ReadCloser, error)
}
