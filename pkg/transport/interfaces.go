package transport

import (
	"context"
	"net/url"

	"github.com/msghub/hubclient-go/pkg/envelope"
)

// Transport is a connection to a hub that carries envelopes.
// Implemented by WebSocketTransport.
type Transport interface {
	// Open connects to endpoint. An existing connection is discarded first.
	Open(ctx context.Context, endpoint *url.URL) error

	// IsConnected reports whether the connection is currently usable.
	IsConnected() bool

	// Send writes one envelope.
	Send(ctx context.Context, env envelope.Envelope) error

	// ReceiveMessage blocks until a message arrives.
	ReceiveMessage(ctx context.Context) (*envelope.Message, error)

	// ReceiveCommand blocks until a command arrives.
	ReceiveCommand(ctx context.Context) (*envelope.Command, error)

	// ReceiveNotification blocks until a notification arrives.
	ReceiveNotification(ctx context.Context) (*envelope.Notification, error)

	// ReceiveSession blocks until a session envelope arrives.
	ReceiveSession(ctx context.Context) (*envelope.Session, error)

	// Close closes the connection. The transport can be opened again.
	Close() error
}

// Compile-time interface satisfaction check.
var _ Transport = (*WebSocketTransport)(nil)
