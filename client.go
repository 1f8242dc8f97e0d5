package stockchat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// readBufferSize is the chunk size for draining the transport body.
const readBufferSize = 4096

// Client runs one logical conversational turn at a time against a
// [Transport]. SendMessage blocks until the turn reaches a terminal state;
// Abort and the observable getters are safe to call from other goroutines.
// Callers must serialize SendMessage calls themselves: a later call
// supersedes and silently tears down any turn still in flight.
type Client struct {
	transport Transport
	backoff   BackoffPolicy
	timeout   time.Duration
	onEvent   func(Event)
	onState   func(ConnectionState)
	logger    zerolog.Logger
	sessionID string

	// dispatchMu serializes event and state delivery with Abort, so that no
	// handler invocation is in flight once Abort returns. Handlers must not
	// call SendMessage, Retry or Abort; the getters are safe.
	dispatchMu sync.Mutex

	mu      sync.Mutex
	state   ConnectionState
	sess    *session
	lastErr error
	cancel  context.CancelFunc
	gen     uint64
}

// Option configures a [Client].
type Option func(*Client)

// WithConfig applies the timeout and backoff settings from cfg.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		c.timeout = cfg.RequestTimeout
		c.backoff = cfg.Backoff()
	}
}

// WithBackoff sets the reconnect policy.
func WithBackoff(p BackoffPolicy) Option {
	return func(c *Client) { c.backoff = p }
}

// WithTimeout sets the per-attempt request timeout. Zero disables the guard.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithSessionID sets the conversation identifier sent with every request.
// Defaults to a random UUID.
func WithSessionID(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithEventHandler sets a callback that receives every decoded event in
// arrival order, including side-channel payloads and protocol errors.
func WithEventHandler(h func(Event)) Option {
	return func(c *Client) { c.onEvent = h }
}

// WithStateHandler sets a callback invoked on every connection state change.
func WithStateHandler(h func(ConnectionState)) Option {
	return func(c *Client) { c.onState = h }
}

// New creates a Client for the given transport.
func New(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		backoff: BackoffPolicy{
			BaseDelay:   DefaultReconnectBaseDelay,
			MaxDelay:    DefaultReconnectMaxDelay,
			MaxAttempts: DefaultMaxReconnectAttempts,
		},
		timeout:   DefaultRequestTimeout,
		logger:    zerolog.Nop(),
		sessionID: uuid.NewString(),
		state:     StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SessionID returns the conversation identifier.
func (c *Client) SessionID() string { return c.sessionID }

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Content returns the assistant text accumulated so far for the current or
// most recent turn, in arrival order.
func (c *Client) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return ""
	}
	return c.sess.content.String()
}

// Err returns the most recent failure, or nil. It is set while the client is
// in StateError and cleared by the next SendMessage or Abort.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SendMessage runs one logical conversational turn: it opens a streaming
// request carrying text and the session ID, dispatches decoded events, and
// reconnects with jittered exponential backoff on transient failures. It
// blocks until the turn completes, fails for good, or is aborted.
//
// The return value is nil on normal completion and on cancellation (abort
// and supersession are silent); otherwise it is the terminal error, also
// available via Err.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	return c.send(ctx, text)
}

// Retry re-sends the last logical message with a fresh attempt budget.
// It is the user-facing affordance after SendMessage returned an error.
func (c *Client) Retry(ctx context.Context) error {
	c.mu.Lock()
	var msg string
	if c.sess != nil {
		msg = c.sess.message
	}
	c.mu.Unlock()
	if msg == "" {
		return ErrNothingToRetry
	}
	return c.send(ctx, msg)
}

// Abort cancels the in-flight turn, if any: the transport is torn down, all
// timers stop, and the state returns to idle. No error is recorded and no
// further events from the aborted connection are dispatched once Abort
// returns. Calling Abort with nothing in flight is a no-op.
func (c *Client) Abort() {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	if c.cancel == nil && c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	changed := c.state != StateIdle
	c.state = StateIdle
	c.lastErr = nil
	h := c.onState
	c.mu.Unlock()

	if changed && h != nil {
		h(StateIdle)
	}
}

// send is the session loop: one transport attempt per iteration, with backoff
// between retryable failures. gen fences every dispatch so a superseded or
// aborted run can never mutate a newer session's state.
func (c *Client) send(ctx context.Context, text string) error {
	c.dispatchMu.Lock()
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		// Supersede: tear down the prior transport before opening ours.
		c.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.sess = &session{message: text}
	c.lastErr = nil
	if !c.state.CanTransitionTo(StateConnecting) {
		c.state = StateIdle
	}
	c.state = StateConnecting
	h := c.onState
	c.mu.Unlock()
	if h != nil {
		h(StateConnecting)
	}
	c.dispatchMu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		if gen == c.gen {
			c.cancel = nil
		}
		c.mu.Unlock()
	}()

	for {
		err := c.connect(runCtx, gen, text)
		if err == nil {
			return nil
		}
		if cerr := runCtx.Err(); cerr != nil {
			if errors.Is(cerr, context.Canceled) {
				// Aborted or superseded: suppressed entirely. Abort and a
				// superseding send own the state; a caller-context cancel
				// rests at idle (the toState is a no-op for the other two,
				// their generation has moved on).
				c.toState(gen, StateIdle)
				return nil
			}
			c.fail(gen, cerr)
			return cerr
		}
		if !retryable(err) {
			c.fail(gen, err)
			return err
		}

		c.setErr(gen, err)
		if !c.toState(gen, StateError) {
			return nil
		}

		c.mu.Lock()
		attempt := 0
		if gen == c.gen && c.sess != nil {
			c.sess.attempt++
			attempt = c.sess.attempt
		}
		c.mu.Unlock()
		if attempt == 0 {
			return nil
		}
		if attempt > c.backoff.MaxAttempts {
			final := fmt.Errorf("chat connection lost after %d attempts, please retry later: %w", attempt, ErrRetriesExhausted)
			c.setErr(gen, final)
			c.logger.Error().Err(err).Int("attempts", attempt).Msg("giving up on reconnect")
			return final
		}

		if !c.toState(gen, StateReconnecting) {
			return nil
		}
		delay := c.backoff.Delay(attempt)
		c.logger.Debug().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("scheduling reconnect")
		timer := time.NewTimer(delay)
		select {
		case <-runCtx.Done():
			timer.Stop()
			if errors.Is(runCtx.Err(), context.Canceled) {
				c.toState(gen, StateIdle)
				return nil
			}
			c.fail(gen, runCtx.Err())
			return runCtx.Err()
		case <-timer.C:
		}
		if !c.toState(gen, StateConnecting) {
			return nil
		}
	}
}

// connect performs a single transport attempt: open, drain, dispatch. A nil
// return means the attempt reached a terminal success (or was superseded,
// which the caller treats the same way).
func (c *Client) connect(ctx context.Context, gen uint64, text string) error {
	attemptCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := c.transport.Open(attemptCtx, Request{SessionID: c.sessionID, Message: text})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("no response within %s: %w", c.timeout, err)
		}
		return err
	}
	defer body.Close()

	if !c.toState(gen, StateConnected) {
		return nil
	}

	var parser FrameParser
	buf := make([]byte, readBufferSize)
	for {
		if cerr := attemptCtx.Err(); cerr != nil {
			return c.timeoutErr(ctx, cerr)
		}
		n, rerr := body.Read(buf)
		if n > 0 {
			for _, frame := range parser.Feed(buf[:n]) {
				ev := DecodeEvent(frame.Data)
				if ev == nil {
					c.logger.Warn().Str("payload", frame.Data).Msg("dropping undecodable frame")
					continue
				}
				done, derr := c.dispatch(gen, ev)
				if derr != nil {
					return derr
				}
				if done {
					return nil
				}
			}
		}
		if rerr != nil {
			if cerr := attemptCtx.Err(); cerr != nil {
				return c.timeoutErr(ctx, cerr)
			}
			if rerr == io.EOF {
				return errors.New("stream ended before terminal event")
			}
			return fmt.Errorf("read stream: %w", rerr)
		}
	}
}

// timeoutErr distinguishes the per-attempt timeout guard from the caller's
// own context expiring or being canceled.
func (c *Client) timeoutErr(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return fmt.Errorf("no terminal event within %s: %w", c.timeout, err)
	}
	return err
}

// dispatch delivers one decoded event under the generation fence. done
// reports a terminal success; a non-nil error carries an in-stream protocol
// error for the session loop to classify.
func (c *Client) dispatch(gen uint64, ev Event) (done bool, err error) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return true, nil
	}

	prev := c.state
	next := prev
	switch e := ev.(type) {
	case EventStreamStart:
		if c.sess != nil {
			c.sess.attempt = 0
		}
		next = StateStreaming
	case EventStreamChunk:
		if c.sess != nil {
			c.sess.content.WriteString(e.Content)
		}
		next = StateStreaming
	case EventStreamEnd:
		next = StateComplete
		done = true
	case EventSideChannel:
		// Forwarded to the event handler only; no lifecycle effect.
	case EventProtocolError:
		err = &ProtocolError{Message: e.Message, Code: e.Code, Retryable: e.Retryable}
	}
	if next != prev && !prev.CanTransitionTo(next) {
		c.logger.Warn().Stringer("from", prev).Stringer("to", next).Msg("out-of-order stream event")
	}
	c.state = next
	eventHandler := c.onEvent
	stateHandler := c.onState
	c.mu.Unlock()

	if eventHandler != nil {
		eventHandler(ev)
	}
	if next != prev && stateHandler != nil {
		stateHandler(next)
	}
	return done, err
}

// toState applies a controller-driven transition under the generation fence.
// Returns false when the session has been superseded.
func (c *Client) toState(gen uint64, next ConnectionState) bool {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return false
	}
	prev := c.state
	if next != prev && !prev.CanTransitionTo(next) {
		c.logger.Warn().Stringer("from", prev).Stringer("to", next).Msg("illegal state transition")
	}
	c.state = next
	h := c.onState
	c.mu.Unlock()

	if next != prev && h != nil {
		h(next)
	}
	return true
}

func (c *Client) fail(gen uint64, err error) {
	c.setErr(gen, err)
	c.toState(gen, StateError)
}

func (c *Client) setErr(gen uint64, err error) {
	c.mu.Lock()
	if gen == c.gen {
		c.lastErr = err
	}
	c.mu.Unlock()
}
