package stockchat

import (
	"math/rand"
	"time"
)

// jitterMax bounds the random perturbation added to every computed delay.
// Jitter spreads out retries from many clients failing at the same moment,
// e.g. after a shared backend restart.
const jitterMax = time.Second

// BackoffPolicy computes the delay before a reconnect attempt. It is pure:
// the delay depends only on the attempt number (plus jitter), never on
// accumulated state.
type BackoffPolicy struct {
	BaseDelay   time.Duration // delay before attempt 1, pre-jitter
	MaxDelay    time.Duration // cap on the exponential component
	MaxAttempts int           // reconnects allowed before giving up

	// Rand returns a value in [0, 1) for the jitter component.
	// Nil means the shared math/rand source; tests inject a fixed one.
	Rand func() float64
}

// Delay returns the backoff delay for the given attempt, numbered from 1:
// min(MaxDelay, BaseDelay*2^(attempt-1)) plus uniform jitter in [0, 1s).
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := p.BaseDelay
	for i := 1; i < attempt && d < p.MaxDelay; i++ {
		d *= 2
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}

	r := p.Rand
	if r == nil {
		r = rand.Float64
	}
	return d + time.Duration(r()*float64(jitterMax))
}
