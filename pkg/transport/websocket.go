package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/log"
	"github.com/msghub/hubclient-go/pkg/version"
)

// Connection states.
type ConnectionState int32

const (
	// StateDisconnected indicates no connection.
	StateDisconnected ConnectionState = iota

	// StateConnecting indicates a dial in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected

	// StateClosing indicates graceful close in progress.
	StateClosing
)

// String returns the connection state name.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// Transport errors.
var (
	ErrNotConnected       = errors.New("not connected")
	ErrConnectionClosed   = errors.New("connection closed")
	ErrInvalidEndpoint    = errors.New("invalid endpoint")
	ErrKeepAliveTimeout   = errors.New("keep-alive timeout")
	ErrSessionTerminated  = errors.New("session terminated by hub")
	ErrUnsupportedVersion = errors.New("unsupported protocol version")
)

// Defaults for WebSocketConfig.
const (
	DefaultBufferSize     = 5
	DefaultMaxMessageSize = 64 * 1024
	DefaultWriteTimeout   = 10 * time.Second
)

// WebSocketConfig configures a WebSocketTransport.
type WebSocketConfig struct {
	// TLS configures wss:// endpoints. Ignored when HTTPClient is set.
	TLS TLSConfig

	// HTTPClient is used for the opening handshake.
	HTTPClient *http.Client

	// HTTPHeader is sent with the opening handshake.
	HTTPHeader http.Header

	// BufferSize is the capacity of each per-kind receive queue (default: 5).
	// When a queue is full the oldest envelope is dropped.
	BufferSize int

	// MaxMessageSize is the maximum frame size accepted (default: 64KB).
	MaxMessageSize int64

	// WriteTimeout bounds a single frame write (default: 10s).
	WriteTimeout time.Duration

	// KeepAlive enables ping monitoring. Nil disables it.
	KeepAlive *KeepAliveConfig

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger captures frames, envelopes and state changes.
	ProtocolLogger log.Logger

	// ChannelID tags protocol log events.
	ChannelID string

	// OnStateChange is called on every state transition.
	OnStateChange func(old, new ConnectionState)
}

// DefaultWebSocketConfig returns the default transport configuration.
func DefaultWebSocketConfig() WebSocketConfig {
	ka := DefaultKeepAliveConfig()
	return WebSocketConfig{
		BufferSize:     DefaultBufferSize,
		MaxMessageSize: DefaultMaxMessageSize,
		WriteTimeout:   DefaultWriteTimeout,
		KeepAlive:      &ka,
	}
}

// WebSocketTransport is a Transport over a single WebSocket connection.
// It is safe for concurrent use; Send and the Receive methods may be called
// from any number of goroutines.
type WebSocketTransport struct {
	config WebSocketConfig
	logger *slog.Logger
	plog   log.Logger

	state atomic.Int32

	// openMu serializes Open and Close.
	openMu sync.Mutex

	mu       sync.RWMutex
	link     *link
	endpoint string
}

// link is one WebSocket connection and its receive queues. A closed link
// stays installed until the next Open or Close so that envelopes queued
// before the drop can still be received.
type link struct {
	conn *websocket.Conn

	messages      chan *envelope.Message
	commands      chan *envelope.Command
	notifications chan *envelope.Notification
	sessions      chan *envelope.Session

	ctx       context.Context
	cancel    context.CancelFunc
	keepAlive *KeepAlive
	wg        sync.WaitGroup

	closing   atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
	cause     error
}

func newLink(conn *websocket.Conn, size int) *link {
	ctx, cancel := context.WithCancel(context.Background())
	return &link{
		conn:          conn,
		messages:      make(chan *envelope.Message, size),
		commands:      make(chan *envelope.Command, size),
		notifications: make(chan *envelope.Notification, size),
		sessions:      make(chan *envelope.Session, size),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
}

// close marks the link closed and reports whether this call did it.
func (l *link) close(cause error) bool {
	first := false
	l.closeOnce.Do(func() {
		first = true
		l.cause = cause
		l.cancel()
		close(l.done)
	})
	return first
}

func (l *link) isClosed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// NewWebSocketTransport creates a disconnected transport.
func NewWebSocketTransport(config WebSocketConfig) *WebSocketTransport {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = DefaultWriteTimeout
	}
	return &WebSocketTransport{
		config: config,
		logger: config.Logger,
		plog:   log.OrNoop(config.ProtocolLogger),
	}
}

// Open dials endpoint and starts the read loop. An existing connection is
// closed first.
func (t *WebSocketTransport) Open(ctx context.Context, endpoint *url.URL) error {
	if endpoint == nil || (endpoint.Scheme != "ws" && endpoint.Scheme != "wss") || endpoint.Host == "" {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, endpoint)
	}

	t.openMu.Lock()
	defer t.openMu.Unlock()

	t.mu.Lock()
	old := t.link
	t.link = nil
	t.endpoint = endpoint.Redacted()
	t.mu.Unlock()
	if old != nil {
		t.debugLog("Open: discarding previous connection")
		t.shutdown(old)
	}

	t.setState(StateConnecting, "")

	opts, err := t.dialOptions()
	if err != nil {
		t.setState(StateDisconnected, err.Error())
		return err
	}

	conn, _, err := websocket.Dial(ctx, endpoint.String(), opts)
	if err != nil {
		t.setState(StateDisconnected, err.Error())
		t.logError("open", err)
		return fmt.Errorf("websocket dial %s: %w", endpoint.Redacted(), err)
	}
	if sub := conn.Subprotocol(); !version.IsSupported(sub) {
		conn.Close(websocket.StatusProtocolError, "unsupported subprotocol")
		t.setState(StateDisconnected, "unsupported subprotocol "+sub)
		return fmt.Errorf("%w: hub selected %q", ErrUnsupportedVersion, sub)
	}
	conn.SetReadLimit(t.config.MaxMessageSize)

	l := newLink(conn, t.config.BufferSize)
	if t.config.KeepAlive != nil {
		l.keepAlive = NewKeepAlive(*t.config.KeepAlive, t.pinger(l), func() {
			t.dropLink(l, ErrKeepAliveTimeout)
		})
	}

	t.mu.Lock()
	t.link = l
	t.mu.Unlock()
	t.setState(StateConnected, "")
	t.debugLog("Open: connected", "endpoint", endpoint.Redacted())

	l.wg.Add(1)
	go t.readLoop(l)
	if l.keepAlive != nil {
		l.keepAlive.Start(l.ctx)
	}

	return nil
}

func (t *WebSocketTransport) dialOptions() (*websocket.DialOptions, error) {
	opts := &websocket.DialOptions{
		HTTPClient:   t.config.HTTPClient,
		HTTPHeader:   t.config.HTTPHeader,
		Subprotocols: version.SupportedSubprotocols(),
	}
	if opts.HTTPClient == nil && !t.config.TLS.IsZero() {
		tlsCfg, err := NewClientTLSConfig(t.config.TLS)
		if err != nil {
			return nil, err
		}
		opts.HTTPClient = &http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		}
	}
	return opts, nil
}

func (t *WebSocketTransport) pinger(l *link) PingFunc {
	return func(ctx context.Context) error {
		t.logControl(log.DirectionOut, log.ControlPing, 0)
		start := time.Now()
		if err := l.conn.Ping(ctx); err != nil {
			t.debugLog("keep-alive: ping failed", "error", err)
			return err
		}
		t.logControl(log.DirectionIn, log.ControlPong, time.Since(start))
		return nil
	}
}

// IsConnected reports whether the connection is currently usable.
func (t *WebSocketTransport) IsConnected() bool {
	return t.State() == StateConnected
}

// State returns the current connection state.
func (t *WebSocketTransport) State() ConnectionState {
	return ConnectionState(t.state.Load())
}

// Subprotocol returns the subprotocol the hub selected for the current
// connection, empty if it did not negotiate one.
func (t *WebSocketTransport) Subprotocol() string {
	l := t.current()
	if l == nil {
		return ""
	}
	return l.conn.Subprotocol()
}

// KeepAliveStats returns the statistics of the active keep-alive monitor.
func (t *WebSocketTransport) KeepAliveStats() (KeepAliveStats, bool) {
	l := t.current()
	if l == nil || l.keepAlive == nil {
		return KeepAliveStats{}, false
	}
	return l.keepAlive.Stats(), true
}

// Send encodes env and writes it as one binary frame. A write failure
// drops the connection.
func (t *WebSocketTransport) Send(ctx context.Context, env envelope.Envelope) error {
	l := t.current()
	if l == nil || l.isClosed() {
		return ErrNotConnected
	}

	data, err := envelope.Encode(env)
	if err != nil {
		return err
	}

	if t.config.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.WriteTimeout)
		defer cancel()
	}

	if err := l.conn.Write(ctx, websocket.MessageBinary, data); err != nil {
		// The library closes the connection on any failed write.
		t.dropLink(l, err)
		return fmt.Errorf("write %s: %w", env.Kind(), err)
	}

	t.logFrame(log.DirectionOut, data)
	t.logEnvelope(log.DirectionOut, env)
	return nil
}

// ReceiveMessage blocks until a message arrives.
func (t *WebSocketTransport) ReceiveMessage(ctx context.Context) (*envelope.Message, error) {
	return receive(ctx, t, func(l *link) chan *envelope.Message { return l.messages })
}

// ReceiveCommand blocks until a command arrives.
func (t *WebSocketTransport) ReceiveCommand(ctx context.Context) (*envelope.Command, error) {
	return receive(ctx, t, func(l *link) chan *envelope.Command { return l.commands })
}

// ReceiveNotification blocks until a notification arrives.
func (t *WebSocketTransport) ReceiveNotification(ctx context.Context) (*envelope.Notification, error) {
	return receive(ctx, t, func(l *link) chan *envelope.Notification { return l.notifications })
}

// ReceiveSession blocks until a session envelope arrives.
func (t *WebSocketTransport) ReceiveSession(ctx context.Context) (*envelope.Session, error) {
	return receive(ctx, t, func(l *link) chan *envelope.Session { return l.sessions })
}

// receive takes the next value from the queue selected by pick. Values
// queued before the connection dropped are still returned.
func receive[T any](ctx context.Context, t *WebSocketTransport, pick func(*link) chan T) (T, error) {
	var zero T

	l := t.current()
	if l == nil {
		return zero, ErrNotConnected
	}
	ch := pick(l)

	select {
	case v := <-ch:
		return v, nil
	default:
	}

	select {
	case v := <-ch:
		return v, nil
	case <-l.done:
		select {
		case v := <-ch:
			return v, nil
		default:
		}
		return zero, fmt.Errorf("%w: %w", ErrConnectionClosed, l.cause)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close closes the connection gracefully and waits for its goroutines.
func (t *WebSocketTransport) Close() error {
	t.openMu.Lock()
	defer t.openMu.Unlock()

	t.mu.Lock()
	l := t.link
	t.link = nil
	t.mu.Unlock()

	if l == nil {
		return nil
	}
	t.shutdown(l)
	return nil
}

func (t *WebSocketTransport) shutdown(l *link) {
	if !l.isClosed() {
		t.setState(StateClosing, "")
		l.closing.Store(true)
		if err := l.conn.Close(websocket.StatusNormalClosure, ""); err != nil {
			t.debugLog("Close: close handshake incomplete", "error", err)
		}
		t.logControl(log.DirectionOut, log.ControlClose, 0)
	}
	l.close(ErrConnectionClosed)
	l.conn.CloseNow()
	if l.keepAlive != nil {
		l.keepAlive.Stop()
	}
	l.wg.Wait()
	t.setState(StateDisconnected, "closed")
}

// dropLink closes l after a failure. It is a no-op for a link that is
// already closed.
func (t *WebSocketTransport) dropLink(l *link, cause error) {
	if !l.close(cause) {
		return
	}
	l.conn.CloseNow()

	if l.closing.Load() {
		return
	}

	t.mu.RLock()
	current := t.link == l
	t.mu.RUnlock()
	if current {
		t.setState(StateDisconnected, cause.Error())
	}
	if t.logger != nil {
		t.logger.Warn("transport: connection lost", "error", cause)
	}
	t.logError("read", cause)
}

func (t *WebSocketTransport) readLoop(l *link) {
	defer l.wg.Done()

	for {
		typ, data, err := l.conn.Read(l.ctx)
		if err != nil {
			t.dropLink(l, err)
			return
		}
		if typ != websocket.MessageBinary {
			t.debugLog("readLoop: ignoring non-binary frame", "type", typ)
			continue
		}
		t.logFrame(log.DirectionIn, data)

		env, err := envelope.Decode(data)
		if err != nil {
			t.debugLog("readLoop: undecodable frame", "error", err, "size", len(data))
			t.logError("decode", err)
			continue
		}
		t.logEnvelope(log.DirectionIn, env)

		var dropped bool
		switch e := env.(type) {
		case *envelope.Message:
			dropped = enqueue(l.messages, e)
		case *envelope.Command:
			dropped = enqueue(l.commands, e)
		case *envelope.Notification:
			dropped = enqueue(l.notifications, e)
		case *envelope.Session:
			dropped = enqueue(l.sessions, e)
			if e.State.IsTerminal() {
				t.dropLink(l, fmt.Errorf("%w: %s", ErrSessionTerminated, e.State))
				return
			}
		}
		if dropped && t.logger != nil {
			t.logger.Warn("transport: receive queue full, dropped oldest envelope", "kind", env.Kind())
		}
	}
}

// enqueue adds v to ch, evicting the oldest entry when full. Only the read
// loop writes to the queues.
func enqueue[T any](ch chan T, v T) (dropped bool) {
	for {
		select {
		case ch <- v:
			return dropped
		default:
		}
		select {
		case <-ch:
			dropped = true
		default:
		}
	}
}

func (t *WebSocketTransport) current() *link {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.link
}

func (t *WebSocketTransport) setState(s ConnectionState, reason string) {
	old := ConnectionState(t.state.Swap(int32(s)))
	if old == s {
		return
	}
	t.logEvent(log.Event{
		Category: log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityTransport,
			OldState: old.String(),
			NewState: s.String(),
			Reason:   reason,
		},
	})
	if t.config.OnStateChange != nil {
		t.config.OnStateChange(old, s)
	}
}

func (t *WebSocketTransport) debugLog(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}

func (t *WebSocketTransport) logEvent(ev log.Event) {
	ev.Timestamp = time.Now()
	ev.ChannelID = t.config.ChannelID
	ev.Layer = log.LayerTransport
	t.mu.RLock()
	ev.Endpoint = t.endpoint
	t.mu.RUnlock()
	t.plog.Log(ev)
}

func (t *WebSocketTransport) logFrame(dir log.Direction, data []byte) {
	t.logEvent(log.Event{
		Direction: dir,
		Category:  log.CategoryEnvelope,
		Frame:     log.NewFrameEvent(data),
	})
}

func (t *WebSocketTransport) logEnvelope(dir log.Direction, env envelope.Envelope) {
	ev := log.Event{
		Direction: dir,
		Category:  log.CategoryEnvelope,
		Envelope:  log.NewEnvelopeEvent(env),
	}
	if s, ok := env.(*envelope.Session); ok {
		ev.SessionID = s.ID
	}
	t.logEvent(ev)
	t.debugLog("envelope", "direction", dir, "kind", env.Kind(), "id", env.EnvelopeID())
}

func (t *WebSocketTransport) logControl(dir log.Direction, typ log.ControlType, latency time.Duration) {
	t.logEvent(log.Event{
		Direction: dir,
		Category:  log.CategoryControl,
		Control:   &log.ControlEvent{Type: typ, Latency: latency},
	})
}

func (t *WebSocketTransport) logError(op string, err error) {
	t.logEvent(log.Event{
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Context: op,
		},
	})
}
