package channel

import (
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/msghub/hubclient-go/pkg/connection"
	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/log"
	"github.com/msghub/hubclient-go/pkg/session"
	"github.com/msghub/hubclient-go/pkg/transport"
)

// Defaults for Config.
const (
	DefaultSendTimeout      = 30 * time.Second
	DefaultWatchdogInterval = connection.DefaultWatchdogInterval
	DefaultReconnectDelay   = connection.DefaultRetryDelay
	DefaultFinishTimeout    = time.Second
)

// Config configures a Channel.
type Config struct {
	// Endpoint is the hub URI (ws:// or wss://).
	Endpoint *url.URL

	// Identity is the name@domain the channel authenticates as.
	Identity envelope.Identity

	// Instance is the requested node instance. The hub may assign another.
	Instance string

	// Authentication is presented during the handshake. Nil means guest.
	Authentication envelope.Authentication

	// SendTimeout bounds the first connect in Start and the implicit
	// reconnect of each send (default: 30s).
	SendTimeout time.Duration

	// WatchdogInterval is how often the watchdog checks the session
	// (default: 2s).
	WatchdogInterval time.Duration

	// ReconnectDelay is the fixed delay between reconnect attempts
	// (default: 2s). Ignored when RetryPolicy is set.
	ReconnectDelay time.Duration

	// RetryPolicy overrides the fixed reconnect delay, e.g. with a
	// connection.Backoff.
	RetryPolicy connection.RetryPolicy

	// FinishTimeout bounds the session finish handshake in Stop
	// (default: 1s).
	FinishTimeout time.Duration

	// AutoReplyPings answers "get /ping" commands from the hub without
	// surfacing them to ReceiveCommand.
	AutoReplyPings bool

	// AutoNotifyReceipt sends a "received" notification for every
	// message returned by ReceiveMessage that carries an ID.
	AutoNotifyReceipt bool

	// FillEnvelopeRecipients sets the sender of outgoing envelopes to the
	// session's local node when it is empty.
	FillEnvelopeRecipients bool

	// Transport carries envelopes. Default: a WebSocketTransport built
	// from WebSocket.
	Transport transport.Transport

	// WebSocket configures the default transport (default:
	// transport.DefaultWebSocketConfig). Its loggers and channel ID are
	// filled from this config.
	WebSocket *transport.WebSocketConfig

	// Establisher performs the handshake. Default: session.ClientEstablisher.
	Establisher session.Establisher

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger captures channel, session and transport events.
	ProtocolLogger log.Logger
}

// DefaultConfig returns a Config with every duration set to its default
// and ping auto-replies enabled.
func DefaultConfig() Config {
	return Config{
		SendTimeout:      DefaultSendTimeout,
		WatchdogInterval: DefaultWatchdogInterval,
		ReconnectDelay:   DefaultReconnectDelay,
		FinishTimeout:    DefaultFinishTimeout,
		AutoReplyPings:   true,
	}
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if c.Endpoint == nil {
		return errors.New("endpoint is required")
	}
	if c.Endpoint.Scheme != "ws" && c.Endpoint.Scheme != "wss" {
		return errors.New("endpoint scheme must be ws or wss")
	}
	if c.Identity.IsZero() {
		return errors.New("identity is required")
	}
	if c.SendTimeout < 0 || c.WatchdogInterval < 0 || c.ReconnectDelay < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.SendTimeout == 0 {
		c.SendTimeout = DefaultSendTimeout
	}
	if c.WatchdogInterval == 0 {
		c.WatchdogInterval = DefaultWatchdogInterval
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.FinishTimeout == 0 {
		c.FinishTimeout = DefaultFinishTimeout
	}
	if c.RetryPolicy == nil {
		c.RetryPolicy = connection.FixedDelay(c.ReconnectDelay)
	}
}
