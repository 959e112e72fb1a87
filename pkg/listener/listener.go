package listener

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/msghub/hubclient-go/pkg/channel"
	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/log"
)

// DefaultErrorPause is how long a loop waits after a receive error before
// trying again.
const DefaultErrorPause = 100 * time.Millisecond

// Config configures a Listener.
type Config struct {
	// ErrorPause is the wait after a failed receive (default: 100ms).
	ErrorPause time.Duration

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger records every dispatched envelope.
	ProtocolLogger log.Logger

	// ChannelID tags protocol log events.
	ChannelID string
}

type messageEntry struct {
	receiver MessageReceiver
	filters  []MessageFilter
}

func (e messageEntry) matches(msg *envelope.Message) bool {
	for _, f := range e.filters {
		if !f(msg) {
			return false
		}
	}
	return true
}

type commandEntry struct {
	receiver CommandReceiver
	filters  []CommandFilter
}

func (e commandEntry) matches(cmd *envelope.Command) bool {
	for _, f := range e.filters {
		if !f(cmd) {
			return false
		}
	}
	return true
}

// Listener dispatches received envelopes to receivers.
type Listener struct {
	src    Source
	config Config
	logger *slog.Logger
	plog   log.Logger

	mu            sync.RWMutex
	messages      []messageEntry
	notifications []NotificationReceiver
	commands      []commandEntry

	// runMu serializes Start and Stop.
	runMu   sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	dispatched atomic.Uint64
	failures   atomic.Uint64
}

// New creates a listener reading from src.
func New(src Source, cfg Config) *Listener {
	if cfg.ErrorPause <= 0 {
		cfg.ErrorPause = DefaultErrorPause
	}
	return &Listener{
		src:    src,
		config: cfg,
		logger: cfg.Logger,
		plog:   log.OrNoop(cfg.ProtocolLogger),
	}
}

// AddMessageReceiver registers r for messages matching every filter.
// Receivers may be added while the listener runs.
func (l *Listener) AddMessageReceiver(r MessageReceiver, filters ...MessageFilter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, messageEntry{receiver: r, filters: filters})
}

// AddNotificationReceiver registers r for every notification.
func (l *Listener) AddNotificationReceiver(r NotificationReceiver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifications = append(l.notifications, r)
}

// AddCommandReceiver registers r for commands matching every filter.
func (l *Listener) AddCommandReceiver(r CommandReceiver, filters ...CommandFilter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commands = append(l.commands, commandEntry{receiver: r, filters: filters})
}

// Start launches the receive loops. Calling Start on a running listener
// does nothing.
func (l *Listener) Start(ctx context.Context) {
	l.runMu.Lock()
	defer l.runMu.Unlock()
	if l.running.Load() {
		return
	}

	ctx, l.cancel = context.WithCancel(ctx)
	l.running.Store(true)
	l.wg.Add(3)
	go run(ctx, l, "message", l.src.ReceiveMessage, l.dispatchMessage)
	go run(ctx, l, "notification", l.src.ReceiveNotification, l.dispatchNotification)
	go run(ctx, l, "command", l.src.ReceiveCommand, l.dispatchCommand)
}

// Stop cancels the receive loops and waits for them to exit.
func (l *Listener) Stop() {
	l.runMu.Lock()
	defer l.runMu.Unlock()
	if !l.running.Load() {
		return
	}
	l.running.Store(false)
	l.cancel()
	l.wg.Wait()
}

// IsRunning reports whether the loops are running.
func (l *Listener) IsRunning() bool {
	return l.running.Load()
}

// Stats reports how many envelopes were dispatched and how many receiver
// calls failed.
func (l *Listener) Stats() (dispatched, failures uint64) {
	return l.dispatched.Load(), l.failures.Load()
}

// run receives envelopes until ctx ends or the source is closed for good.
func run[T envelope.Envelope](ctx context.Context, l *Listener, kind string, recv func(context.Context) (T, error), dispatch func(context.Context, T)) {
	defer l.wg.Done()

	for {
		env, err := recv(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, channel.ErrGuardClosed) || errors.Is(err, channel.ErrNotStarted) {
				l.debugLog("listener: loop exiting", "kind", kind, "error", err)
				return
			}
			if l.logger != nil {
				l.logger.Warn("listener: receive failed", "kind", kind, "error", err)
			}
			select {
			case <-time.After(l.config.ErrorPause):
				continue
			case <-ctx.Done():
				return
			}
		}

		l.logDispatch(env)
		dispatch(ctx, env)
		l.dispatched.Add(1)
	}
}

func (l *Listener) dispatchMessage(ctx context.Context, msg *envelope.Message) {
	l.mu.RLock()
	entries := l.messages
	l.mu.RUnlock()

	for _, e := range entries {
		if e.matches(msg) {
			l.report("message", msg.ID, e.receiver.ReceiveMessage(ctx, msg, l.src))
		}
	}
}

func (l *Listener) dispatchNotification(ctx context.Context, n *envelope.Notification) {
	l.mu.RLock()
	receivers := l.notifications
	l.mu.RUnlock()

	for _, r := range receivers {
		l.report("notification", n.ID, r.ReceiveNotification(ctx, n, l.src))
	}
}

func (l *Listener) dispatchCommand(ctx context.Context, cmd *envelope.Command) {
	l.mu.RLock()
	entries := l.commands
	l.mu.RUnlock()

	for _, e := range entries {
		if e.matches(cmd) {
			l.report("command", cmd.ID, e.receiver.ReceiveCommand(ctx, cmd, l.src))
		}
	}
}

func (l *Listener) report(kind, id string, err error) {
	if err == nil {
		return
	}
	l.failures.Add(1)
	if l.logger != nil {
		l.logger.Warn("listener: receiver failed", "kind", kind, "id", id, "error", err)
	}
	l.plog.Log(log.Event{
		Timestamp: time.Now(),
		ChannelID: l.config.ChannelID,
		Layer:     log.LayerChannel,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerChannel,
			Message: err.Error(),
			Context: "receiver " + kind,
		},
	})
}

func (l *Listener) logDispatch(env envelope.Envelope) {
	l.plog.Log(log.Event{
		Timestamp: time.Now(),
		ChannelID: l.config.ChannelID,
		Direction: log.DirectionIn,
		Layer:     log.LayerChannel,
		Category:  log.CategoryEnvelope,
		Envelope:  log.NewEnvelopeEvent(env),
	})
}

func (l *Listener) debugLog(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

var _ Source = (*channel.Channel)(nil)
