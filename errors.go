package stockchat

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrRetriesExhausted indicates the reconnect budget was spent without a
	// successful stream. It wraps a user-actionable message; the underlying
	// transport error is available via Client.Err during the attempts.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrNothingToRetry indicates Retry was called before any SendMessage.
	ErrNothingToRetry = errors.New("nothing to retry")
)

// ProtocolError is an application-level error from the chat backend, either
// decoded from an in-stream error event or from a non-200 response body.
// The server-supplied message is surfaced verbatim.
type ProtocolError struct {
	Message   string
	Code      string
	Retryable bool
}

func (e *ProtocolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("chat backend: %s (%s)", e.Message, e.Code)
	}
	return "chat backend: " + e.Message
}

// retryable classifies a session failure. Transport errors and timeouts are
// transient; protocol errors carry their own verdict; cancellation is not an
// error at all and is filtered out before this point.
func retryable(err error) bool {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	// Includes context.DeadlineExceeded: the per-request timeout guard.
	return true
}
