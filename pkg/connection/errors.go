package connection

import (
	"context"
	"errors"
	"fmt"
)

// Connection errors.
var (
	// ErrTransportOpenFailed wraps a failure to open the transport.
	ErrTransportOpenFailed = errors.New("transport open failed")

	// ErrHandshakeFailed wraps a failure to establish the session.
	ErrHandshakeFailed = errors.New("session handshake failed")

	// ErrConnectTimeout is returned when a bounded connect runs out of time.
	ErrConnectTimeout = errors.New("connection timeout")

	// ErrCancelled is returned when the caller's context ends the wait.
	ErrCancelled = errors.New("operation cancelled")

	// ErrGuardClosed is returned by a guard after Close.
	ErrGuardClosed = errors.New("connection guard closed")

	// ErrNotConnected is recorded when a connect attempt returns without
	// leaving the connection usable.
	ErrNotConnected = errors.New("not connected")
)

// cancelled builds the error for a wait ended by ctx.
func cancelled(ctx context.Context) error {
	if errors.Is(context.Cause(ctx), ErrGuardClosed) {
		return ErrGuardClosed
	}
	return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
}
