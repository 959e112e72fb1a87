package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/log"
)

// Handshake errors.
var (
	ErrSessionFailed    = errors.New("session failed")
	ErrUnexpectedState  = errors.New("unexpected session state")
	ErrSchemeNotOffered = errors.New("authentication scheme not offered")
)

// Establisher performs the session handshake over an open transport.
// Implemented by ClientEstablisher.
type Establisher interface {
	Establish(ctx context.Context, t Transport, id envelope.Identity, auth envelope.Authentication) (*Session, error)
}

// ClientEstablisher runs the client side of the handshake.
type ClientEstablisher struct {
	// Instance is requested as the node instance. The hub may replace it.
	Instance string

	// Logger is the optional logger for debug output.
	Logger *slog.Logger

	// ProtocolLogger receives session state changes.
	ProtocolLogger log.Logger

	// ChannelID tags protocol log events.
	ChannelID string
}

// Establish authenticates id with auth. A nil auth means guest. The
// returned error wraps ErrSessionFailed when the hub refuses the session,
// and the transport error when the exchange breaks off.
func (e *ClientEstablisher) Establish(ctx context.Context, t Transport, id envelope.Identity, auth envelope.Authentication) (*Session, error) {
	if auth == nil {
		auth = envelope.GuestAuthentication{}
	}

	e.logState("", envelope.SessionNew, "")
	if err := t.Send(ctx, &envelope.Session{State: envelope.SessionNew}); err != nil {
		return nil, fmt.Errorf("send new session: %w", err)
	}

	offer, err := e.receive(ctx, t)
	if err != nil {
		return nil, err
	}
	if offer.State != envelope.SessionAuthenticating {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedState, offer.State, envelope.SessionAuthenticating)
	}
	e.logState(offer.ID, envelope.SessionAuthenticating, "")
	if !offer.OffersScheme(auth.Scheme()) {
		return nil, fmt.Errorf("%w: %s (offered %v)", ErrSchemeNotOffered, auth.Scheme(), offer.SchemeOptions)
	}

	req := &envelope.Session{
		ID:    offer.ID,
		From:  id.Node(e.Instance),
		To:    offer.From,
		State: envelope.SessionAuthenticating,
	}
	req.SetAuthentication(auth)
	if err := t.Send(ctx, req); err != nil {
		return nil, fmt.Errorf("send authentication: %w", err)
	}

	result, err := e.receive(ctx, t)
	if err != nil {
		return nil, err
	}
	if result.State != envelope.SessionEstablished {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedState, result.State, envelope.SessionEstablished)
	}

	local := result.To
	if local.IsZero() {
		local = req.From
	}
	s := New(result.ID, local, result.From)
	s.scheme = auth.Scheme()
	e.logState(s.id, envelope.SessionEstablished, "")
	if e.Logger != nil {
		e.Logger.Debug("session established", "sessionID", s.id, "node", local.String())
	}
	return s, nil
}

// receive waits for the next session envelope and turns a failed one into
// an error.
func (e *ClientEstablisher) receive(ctx context.Context, t Transport) (*envelope.Session, error) {
	s, err := t.ReceiveSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("receive session: %w", err)
	}
	if s.State == envelope.SessionFailed {
		e.logState(s.ID, envelope.SessionFailed, s.Reason.String())
		return nil, fmt.Errorf("%w: %s", ErrSessionFailed, s.Reason)
	}
	return s, nil
}

func (e *ClientEstablisher) logState(sessionID string, state envelope.SessionState, reason string) {
	if e.ProtocolLogger == nil {
		return
	}
	e.ProtocolLogger.Log(log.Event{
		Timestamp: time.Now(),
		ChannelID: e.ChannelID,
		SessionID: sessionID,
		Layer:     log.LayerEnvelope,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntitySession,
			NewState: state.String(),
			Reason:   reason,
		},
	})
}

var _ Establisher = (*ClientEstablisher)(nil)
