package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msghub/hubclient-go/pkg/connection"
	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/log"
	"github.com/msghub/hubclient-go/pkg/session"
	"github.com/msghub/hubclient-go/pkg/transport"
)

// Channel errors. The connection errors are re-exported so callers only
// need this package.
var (
	ErrTransportOpenFailed = connection.ErrTransportOpenFailed
	ErrHandshakeFailed     = connection.ErrHandshakeFailed
	ErrConnectTimeout      = connection.ErrConnectTimeout
	ErrCancelled           = connection.ErrCancelled
	ErrGuardClosed         = connection.ErrGuardClosed

	ErrNotStarted     = errors.New("channel not started")
	ErrAlreadyStarted = errors.New("channel already started")
)

// Channel is a persistent channel to a hub. It is safe for concurrent use.
type Channel struct {
	id          string
	cfg         Config
	transport   transport.Transport
	establisher session.Establisher
	logger      *slog.Logger
	plog        log.Logger

	// mu guards the lifecycle fields. It is never held across a connect.
	mu       sync.Mutex
	started  bool
	starting bool
	guard    *connection.Guard
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	sessMu  sync.RWMutex
	session *session.Session
}

// New creates a stopped channel.
func New(cfg Config) (*Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid channel config: %w", err)
	}
	cfg.applyDefaults()

	c := &Channel{
		id:     uuid.NewString(),
		cfg:    cfg,
		logger: cfg.Logger,
		plog:   log.OrNoop(cfg.ProtocolLogger),
	}

	c.transport = cfg.Transport
	if c.transport == nil {
		wsCfg := transport.DefaultWebSocketConfig()
		if cfg.WebSocket != nil {
			wsCfg = *cfg.WebSocket
		}
		wsCfg.Logger = cfg.Logger
		wsCfg.ProtocolLogger = cfg.ProtocolLogger
		wsCfg.ChannelID = c.id
		c.transport = transport.NewWebSocketTransport(wsCfg)
	}

	c.establisher = cfg.Establisher
	if c.establisher == nil {
		c.establisher = &session.ClientEstablisher{
			Instance:       cfg.Instance,
			Logger:         cfg.Logger,
			ProtocolLogger: cfg.ProtocolLogger,
			ChannelID:      c.id,
		}
	}

	return c, nil
}

// ID returns the channel's unique ID. It is stable across reconnections.
func (c *Channel) ID() string {
	return c.id
}

// Session returns the current session, or nil before the first connect.
func (c *Channel) Session() *session.Session {
	c.sessMu.RLock()
	defer c.sessMu.RUnlock()
	return c.session
}

// IsConnected reports whether the transport is up and the session is
// established. It is evaluated on every call.
func (c *Channel) IsConnected() bool {
	return c.transport.IsConnected() && c.Session().State() == envelope.SessionEstablished
}

// Start connects to the hub, bounded by SendTimeout, and launches the
// watchdog. If the first connect does not finish in time Start fails with
// ErrConnectTimeout and nothing keeps running.
//
// The guard is published before the first connect, so operations issued
// while Start runs wait on it with their own context. Stop during Start
// aborts the connect.
func (c *Channel) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started || c.starting {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	prev := c.guard
	guard := connection.NewGuard(c, connection.GuardConfig{
		Retry:           c.cfg.RetryPolicy,
		Logger:          c.logger,
		OnStateChange:   c.onGuardState,
		OnAttemptFailed: c.onAttemptFailed,
	})
	c.guard = guard
	c.starting = true
	c.mu.Unlock()

	connectCtx, cancel := context.WithTimeout(ctx, c.cfg.SendTimeout)
	err := guard.EnsureConnected(connectCtx)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	aborted := !c.starting
	c.starting = false
	if err == nil && aborted {
		err = ErrGuardClosed
	}
	if err != nil {
		guard.Close()
		if !aborted {
			c.guard = prev
		}
		_ = c.transport.Close()
		return c.boundedError(ctx, err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	c.cancel = runCancel
	c.started = true

	watchdog := connection.NewWatchdog(guard, c.cfg.WatchdogInterval, c.logger)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		watchdog.Run(runCtx)
	}()

	if c.logger != nil {
		c.logger.Info("channel started", "channelID", c.id, "endpoint", c.cfg.Endpoint.Redacted())
	}
	return nil
}

// Stop cancels the watchdog, waits for it to exit and closes the
// transport, finishing the session if it is still established. It is safe
// to call before Start and more than once.
func (c *Channel) Stop() error {
	c.mu.Lock()
	if c.starting {
		// Start sees the closed guard and cleans up.
		c.starting = false
		c.guard.Close()
		c.mu.Unlock()
		return nil
	}
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = false
	c.cancel()
	c.guard.Close()
	c.mu.Unlock()

	c.wg.Wait()

	if s := c.Session(); s != nil && c.transport.IsConnected() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.FinishTimeout)
		if err := s.Finish(ctx, c.transport); err != nil && c.logger != nil {
			c.logger.Debug("channel: session finish incomplete", "error", err)
		}
		cancel()
	}
	if err := c.transport.Close(); err != nil && c.logger != nil {
		c.logger.Debug("channel: transport close", "error", err)
	}

	if c.logger != nil {
		c.logger.Info("channel stopped", "channelID", c.id)
	}
	return nil
}

// Connect makes a single connect attempt: open the transport, then run the
// handshake. It is a no-op when already connected. Failures wrap
// ErrTransportOpenFailed or ErrHandshakeFailed and are not retried; use
// EnsureConnected for retries.
func (c *Channel) Connect(ctx context.Context) error {
	if c.IsConnected() {
		return nil
	}

	// The previous session is gone with its link. Marking it failed keeps
	// IsConnected false while the new link is still unauthenticated.
	if old := c.Session(); old != nil {
		old.Terminate(envelope.SessionFailed, &envelope.Reason{Description: "connection lost"})
	}

	if err := c.transport.Open(ctx, c.cfg.Endpoint); err != nil {
		return fmt.Errorf("%w: %w", ErrTransportOpenFailed, err)
	}

	s, err := c.establisher.Establish(ctx, c.transport, c.cfg.Identity, c.cfg.Authentication)
	if err != nil {
		_ = c.transport.Close()
		return fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}

	c.sessMu.Lock()
	c.session = s
	c.sessMu.Unlock()

	if c.logger != nil {
		c.logger.Debug("channel: session established", "sessionID", s.ID(), "node", s.LocalNode().String())
	}
	return nil
}

// EnsureConnected returns once the channel is connected, reconnecting
// through the guard if needed. It fails with ErrCancelled when ctx ends the
// wait, ErrNotStarted before Start and ErrGuardClosed after Stop.
func (c *Channel) EnsureConnected(ctx context.Context) error {
	c.mu.Lock()
	guard := c.guard
	c.mu.Unlock()

	if guard == nil {
		return ErrNotStarted
	}
	return guard.EnsureConnected(ctx)
}

// ensureBounded reconnects with a fresh SendTimeout bound.
func (c *Channel) ensureBounded(ctx context.Context) error {
	boundedCtx, cancel := context.WithTimeout(ctx, c.cfg.SendTimeout)
	defer cancel()
	if err := c.EnsureConnected(boundedCtx); err != nil {
		return c.boundedError(ctx, err)
	}
	return nil
}

// boundedError reports ErrConnectTimeout when the SendTimeout bound
// expired, as opposed to the caller's own context.
func (c *Channel) boundedError(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return fmt.Errorf("%w after %s", ErrConnectTimeout, c.cfg.SendTimeout)
	}
	return err
}

func (c *Channel) onGuardState(old, new connection.State) {
	c.logState(old.String(), new.String(), "")
	if c.logger != nil {
		c.logger.Debug("channel: state change", "from", old.String(), "to", new.String())
	}
}

func (c *Channel) onAttemptFailed(attempt int, err error) {
	c.plog.Log(log.Event{
		Timestamp: time.Now(),
		ChannelID: c.id,
		Layer:     log.LayerChannel,
		Category:  log.CategoryError,
		Endpoint:  c.cfg.Endpoint.Redacted(),
		Error: &log.ErrorEventData{
			Layer:   log.LayerChannel,
			Message: err.Error(),
			Context: "connect",
			Attempt: attempt,
		},
	})
}

func (c *Channel) logState(old, new, reason string) {
	ev := log.Event{
		Timestamp: time.Now(),
		ChannelID: c.id,
		Layer:     log.LayerChannel,
		Category:  log.CategoryState,
		Endpoint:  c.cfg.Endpoint.Redacted(),
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityChannel,
			OldState: old,
			NewState: new,
			Reason:   reason,
		},
	}
	if s := c.Session(); s != nil {
		ev.SessionID = s.ID()
	}
	c.plog.Log(ev)
}

var _ connection.Connector = (*Channel)(nil)
