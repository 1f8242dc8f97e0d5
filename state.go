package stockchat

// ConnectionState is the lifecycle state of a [Client]'s current session.
type ConnectionState int

const (
	StateIdle         ConnectionState = iota // No session; initial and post-abort.
	StateConnecting                          // Transport request in flight.
	StateConnected                           // Transport established, awaiting stream_start.
	StateStreaming                           // Receiving chunks.
	StateComplete                            // Terminal: stream ended normally.
	StateError                               // Failure observed; terminal once retries are exhausted.
	StateReconnecting                        // Backoff delay before the next attempt.
)

// String returns the lowercase state name.
func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateStreaming:
		return "streaming"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// transitions lists the legal lifecycle moves. Abort (to StateIdle) is legal
// from every state and is not listed. A SendMessage that supersedes an active
// session tears the prior transport down first, which reads as a move through
// StateIdle.
var transitions = map[ConnectionState][]ConnectionState{
	StateIdle:         {StateConnecting},
	StateConnecting:   {StateConnected, StateError},
	StateConnected:    {StateStreaming, StateError},
	StateStreaming:    {StateStreaming, StateComplete, StateError},
	StateComplete:     {StateConnecting},
	StateError:        {StateConnecting, StateReconnecting},
	StateReconnecting: {StateConnecting, StateError},
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s ConnectionState) CanTransitionTo(next ConnectionState) bool {
	if next == StateIdle {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
