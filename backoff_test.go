package stockchat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crucial-sub/stockchat"
)

// noJitter pins the random component to zero.
func noJitter() float64 { return 0 }

func TestBackoffPolicy_ExponentialGrowth(t *testing.T) {
	t.Parallel()
	p := stockchat.BackoffPolicy{
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
		Rand:      noJitter,
	}

	assert.Equal(t, 1*time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 4*time.Second, p.Delay(3))
	assert.Equal(t, 8*time.Second, p.Delay(4))
	assert.Equal(t, 16*time.Second, p.Delay(5))
}

func TestBackoffPolicy_CappedAtMaxDelay(t *testing.T) {
	t.Parallel()
	p := stockchat.BackoffPolicy{
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
		Rand:      noJitter,
	}

	assert.Equal(t, 30*time.Second, p.Delay(6))
	assert.Equal(t, 30*time.Second, p.Delay(7))
	assert.Equal(t, 30*time.Second, p.Delay(50))
}

func TestBackoffPolicy_MonotonicUpToCap(t *testing.T) {
	t.Parallel()
	p := stockchat.BackoffPolicy{
		BaseDelay: 250 * time.Millisecond,
		MaxDelay:  10 * time.Second,
		Rand:      noJitter,
	}

	prev := time.Duration(0)
	for attempt := 1; attempt <= 20; attempt++ {
		d := p.Delay(attempt)
		assert.GreaterOrEqual(t, d, prev, "attempt %d", attempt)
		assert.LessOrEqual(t, d, p.MaxDelay, "pre-jitter delay must not exceed the cap")
		prev = d
	}
}

func TestBackoffPolicy_JitterBounded(t *testing.T) {
	t.Parallel()
	p := stockchat.BackoffPolicy{
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
		Rand:      func() float64 { return 0.5 },
	}

	assert.Equal(t, time.Second+500*time.Millisecond, p.Delay(1))

	// Jitter approaching 1.0 stays strictly under one second on top.
	p.Rand = func() float64 { return 0.999 }
	d := p.Delay(1)
	assert.Less(t, d, 2*time.Second)
	assert.GreaterOrEqual(t, d, time.Second)
}

func TestBackoffPolicy_AttemptFloor(t *testing.T) {
	t.Parallel()
	p := stockchat.BackoffPolicy{
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
		Rand:      noJitter,
	}

	// Attempt numbering starts at 1; anything lower behaves like 1.
	assert.Equal(t, p.Delay(1), p.Delay(0))
	assert.Equal(t, p.Delay(1), p.Delay(-3))
}

func TestBackoffPolicy_DefaultRandSource(t *testing.T) {
	t.Parallel()
	p := stockchat.BackoffPolicy{BaseDelay: time.Second, MaxDelay: 30 * time.Second}

	d := p.Delay(1)
	assert.GreaterOrEqual(t, d, time.Second)
	assert.Less(t, d, 2*time.Second)
}
