package connection

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// State is the guard's view of the connection.
type State uint8

const (
	// StateDisconnected indicates no connect attempt has run yet.
	StateDisconnected State = iota

	// StateConnecting indicates the first connect is in progress.
	StateConnecting

	// StateConnected indicates the last attempt succeeded.
	StateConnected

	// StateReconnecting indicates a reconnect episode is in progress.
	StateReconnecting

	// StateClosed indicates the guard has been closed.
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Connector is the connection a Guard keeps alive.
type Connector interface {
	// IsConnected evaluates the connectivity predicate. It must be cheap
	// and must not block.
	IsConnected() bool

	// Connect makes a single attempt to connect. It does not retry.
	Connect(ctx context.Context) error
}

// ConnectFunc adapts a pair of functions to the Connector interface.
type ConnectFunc struct {
	Connected func() bool
	Attempt   func(ctx context.Context) error
}

// IsConnected calls f.Connected.
func (f ConnectFunc) IsConnected() bool { return f.Connected() }

// Connect calls f.Attempt.
func (f ConnectFunc) Connect(ctx context.Context) error { return f.Attempt(ctx) }

// GuardConfig configures a Guard.
type GuardConfig struct {
	// Retry decides the delay between attempts.
	// Default: FixedDelay(DefaultRetryDelay).
	Retry RetryPolicy

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// OnStateChange is called on every state transition.
	OnStateChange func(old, new State)

	// OnAttemptFailed is called for every failed attempt, before the
	// retry delay.
	OnAttemptFailed func(attempt int, err error)
}

// Guard serializes reconnection: at most one reconnect loop runs at a
// time, and callers that arrive while it runs wait for its outcome.
type Guard struct {
	connector Connector
	sem       *semaphore.Weighted
	retry     RetryPolicy
	logger    *slog.Logger

	onStateChange   func(old, new State)
	onAttemptFailed func(attempt int, err error)

	mu    sync.Mutex
	state State

	closeOnce sync.Once
	closeCh   chan struct{}

	attempts atomic.Int64
	episodes atomic.Int64
}

// NewGuard creates a guard for c.
func NewGuard(c Connector, cfg GuardConfig) *Guard {
	if cfg.Retry == nil {
		cfg.Retry = FixedDelay(DefaultRetryDelay)
	}
	return &Guard{
		connector:       c,
		sem:             semaphore.NewWeighted(1),
		retry:           cfg.Retry,
		logger:          cfg.Logger,
		onStateChange:   cfg.OnStateChange,
		onAttemptFailed: cfg.OnAttemptFailed,
		closeCh:         make(chan struct{}),
	}
}

// IsConnected evaluates the connector's predicate.
func (g *Guard) IsConnected() bool {
	return g.connector.IsConnected()
}

// State returns the current guard state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Attempts returns the number of connect attempts made so far.
func (g *Guard) Attempts() int {
	return int(g.attempts.Load())
}

// Episodes returns the number of reconnect loops run so far.
func (g *Guard) Episodes() int {
	return int(g.episodes.Load())
}

// EnsureConnected returns once the connection is up. If it is down, the
// caller either runs the reconnect loop or waits for the one in progress.
// Errors are ErrCancelled (wrapping the context error) when ctx ends the
// wait, and ErrGuardClosed after Close. Connect failures are retried, not
// returned.
func (g *Guard) EnsureConnected(ctx context.Context) error {
	if g.isClosed() {
		return ErrGuardClosed
	}

	ctx, release := g.bindClose(ctx)
	defer release()

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return cancelled(ctx)
	}
	defer g.sem.Release(1)

	if g.isClosed() {
		return ErrGuardClosed
	}
	// Another holder may have reconnected while we waited.
	if g.connector.IsConnected() {
		return nil
	}
	return g.reconnect(ctx)
}

// Close makes pending and future EnsureConnected calls fail with
// ErrGuardClosed. A running reconnect loop stops at its next wait.
func (g *Guard) Close() {
	g.closeOnce.Do(func() {
		close(g.closeCh)
		g.setState(StateClosed)
	})
}

func (g *Guard) isClosed() bool {
	select {
	case <-g.closeCh:
		return true
	default:
		return false
	}
}

// bindClose derives a context that is also cancelled by Close.
func (g *Guard) bindClose(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	stop := make(chan struct{})
	go func() {
		select {
		case <-g.closeCh:
			cancel(ErrGuardClosed)
		case <-stop:
		}
	}()
	return ctx, func() {
		close(stop)
		cancel(nil)
	}
}

// reconnect runs with the semaphore held until the connection is up or
// ctx is done.
func (g *Guard) reconnect(ctx context.Context) error {
	episode := g.episodes.Add(1)
	if episode == 1 {
		g.setState(StateConnecting)
	} else {
		g.setState(StateReconnecting)
	}

	for attempt := 1; ; attempt++ {
		g.attempts.Add(1)
		err := g.connector.Connect(ctx)
		if err == nil && g.connector.IsConnected() {
			g.retry.Reset()
			g.setState(StateConnected)
			if g.logger != nil {
				g.logger.Info("connection: connected", "episode", episode, "attempts", attempt)
			}
			return nil
		}
		if ctx.Err() != nil {
			return cancelled(ctx)
		}
		if err == nil {
			err = ErrNotConnected
		}

		delay := g.retry.Next()
		if g.logger != nil {
			g.logger.Warn("connection: attempt failed", "attempt", attempt, "retryIn", delay, "error", err)
		}
		if g.onAttemptFailed != nil {
			g.onAttemptFailed(attempt, err)
		}

		if err := sleep(ctx, delay); err != nil {
			return cancelled(ctx)
		}
	}
}

func (g *Guard) setState(s State) {
	g.mu.Lock()
	old := g.state
	if old == s || old == StateClosed {
		g.mu.Unlock()
		return
	}
	g.state = s
	cb := g.onStateChange
	g.mu.Unlock()

	if cb != nil {
		cb(old, s)
	}
}
