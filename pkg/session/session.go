package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/msghub/hubclient-go/pkg/envelope"
)

// Transport is the part of a transport the handshake needs.
type Transport interface {
	Send(ctx context.Context, env envelope.Envelope) error
	ReceiveSession(ctx context.Context) (*envelope.Session, error)
}

// Session is an established session. State and Reason are safe for
// concurrent use.
type Session struct {
	id            string
	localNode     envelope.Node
	remoteNode    envelope.Node
	scheme        envelope.AuthenticationScheme
	establishedAt time.Time

	mu     sync.RWMutex
	state  envelope.SessionState
	reason *envelope.Reason
}

// New returns an established session. The handshake builds sessions with
// it; tests use it to stand in for a hub.
func New(id string, local, remote envelope.Node) *Session {
	return &Session{
		id:            id,
		localNode:     local,
		remoteNode:    remote,
		establishedAt: time.Now(),
		state:         envelope.SessionEstablished,
	}
}

// ID returns the session ID assigned by the hub.
func (s *Session) ID() string { return s.id }

// LocalNode returns the address the hub assigned to this client.
func (s *Session) LocalNode() envelope.Node { return s.localNode }

// RemoteNode returns the hub node that established the session.
func (s *Session) RemoteNode() envelope.Node { return s.remoteNode }

// Scheme returns the authentication scheme used.
func (s *Session) Scheme() envelope.AuthenticationScheme { return s.scheme }

// EstablishedAt returns when the session was established.
func (s *Session) EstablishedAt() time.Time { return s.establishedAt }

// State returns the current session state.
func (s *Session) State() envelope.SessionState {
	if s == nil {
		return envelope.SessionNew
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Reason returns why the session ended, if it did.
func (s *Session) Reason() *envelope.Reason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

// Terminate records a terminal state reported by the hub.
func (s *Session) Terminate(state envelope.SessionState, reason *envelope.Reason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsTerminal() {
		return
	}
	s.state = state
	s.reason = reason
}

// Finish ends the session: it sends a finishing envelope and waits for the
// hub to confirm until ctx is done. The session is marked finished either
// way.
func (s *Session) Finish(ctx context.Context, t Transport) error {
	s.mu.Lock()
	if s.state != envelope.SessionEstablished {
		s.mu.Unlock()
		return nil
	}
	s.state = envelope.SessionFinishing
	s.mu.Unlock()

	defer s.Terminate(envelope.SessionFinished, nil)

	err := t.Send(ctx, &envelope.Session{
		ID:    s.id,
		From:  s.localNode,
		To:    s.remoteNode,
		State: envelope.SessionFinishing,
	})
	if err != nil {
		return fmt.Errorf("send finishing: %w", err)
	}

	for {
		reply, err := t.ReceiveSession(ctx)
		if err != nil {
			return fmt.Errorf("await finished: %w", err)
		}
		if reply.State.IsTerminal() {
			return nil
		}
	}
}
