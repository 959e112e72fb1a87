// Package hubtest provides an in-process hub for tests.
//
// The hub accepts WebSocket connections, performs the server side of the
// session handshake and routes envelopes between connected clients:
//
//   - Messages are acknowledged with an "accepted" notification, then
//     delivered to every session of the recipient identity. A message to
//     echo@<domain> is sent back to its sender.
//   - Commands to postmaster@<domain> with URI /ping are answered with a
//     success response; other postmaster commands fail.
//   - Notifications are delivered to the recipient identity.
package hubtest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/version"
)

// DefaultDomain is the domain used when none is configured.
const DefaultDomain = "hub.test"

// Reason codes sent by the hub.
const (
	ReasonAuthenticationFailed = 13
	ReasonUnexpectedState      = 14
	ReasonNotFound             = 67
)

// Option configures a Hub.
type Option func(*Hub)

// WithDomain sets the hub domain.
func WithDomain(domain string) Option {
	return func(h *Hub) { h.domain = domain }
}

// WithUser registers an identity that authenticates with password.
func WithUser(identity, password string) Option {
	return func(h *Hub) { h.passwords[identity] = password }
}

// WithAccessKey registers an identity that authenticates with key.
func WithAccessKey(identity, key string) Option {
	return func(h *Hub) { h.keys[identity] = key }
}

// WithGuests allows guest authentication.
func WithGuests() Option {
	return func(h *Hub) { h.guests = true }
}

// WithTLS serves wss:// instead of ws://.
func WithTLS() Option {
	return func(h *Hub) { h.tls = true }
}

// Hub is a minimal hub serving one endpoint at /hub.
type Hub struct {
	domain    string
	passwords map[string]string
	keys      map[string]string
	guests    bool
	tls       bool

	server *httptest.Server

	rejectConnections atomic.Bool
	handshakeDelay    atomic.Int64

	accepted    atomic.Int32
	established atomic.Int32

	mu        sync.Mutex
	conns     map[*hubConn]struct{}
	received  []envelope.Envelope
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type hubConn struct {
	conn      *websocket.Conn
	node      envelope.Node
	sessionID string
}

// New starts a hub and registers its shutdown with t.Cleanup.
func New(t testing.TB, opts ...Option) *Hub {
	t.Helper()

	h := &Hub{
		domain:    DefaultDomain,
		passwords: make(map[string]string),
		keys:      make(map[string]string),
		conns:     make(map[*hubConn]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/hub", h.handle)
	if h.tls {
		h.server = httptest.NewTLSServer(mux)
	} else {
		h.server = httptest.NewServer(mux)
	}

	t.Cleanup(h.Close)
	return h
}

// URL returns the WebSocket endpoint of the hub.
func (h *Hub) URL() *url.URL {
	u, _ := url.Parse(h.server.URL)
	if h.tls {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = "/hub"
	return u
}

// Domain returns the hub domain.
func (h *Hub) Domain() string {
	return h.domain
}

// HTTPClient returns a client that trusts the hub's TLS certificate.
func (h *Hub) HTTPClient() *http.Client {
	return h.server.Client()
}

// Close disconnects every client and stops the server.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		h.KickAll()
		h.server.Close()
		h.wg.Wait()
	})
}

// SetRejectConnections makes the hub refuse WebSocket upgrades.
func (h *Hub) SetRejectConnections(reject bool) {
	h.rejectConnections.Store(reject)
}

// SetHandshakeDelay delays the hub's first handshake reply.
func (h *Hub) SetHandshakeDelay(d time.Duration) {
	h.handshakeDelay.Store(int64(d))
}

// KickAll drops every client connection without a close handshake.
func (h *Hub) KickAll() {
	h.mu.Lock()
	conns := make([]*hubConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.conn.CloseNow()
	}
}

// Accepted returns the number of WebSocket connections accepted so far.
func (h *Hub) Accepted() int {
	return int(h.accepted.Load())
}

// Established returns the number of sessions established so far.
func (h *Hub) Established() int {
	return int(h.established.Load())
}

// Connections returns the number of live established sessions.
func (h *Hub) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.conns {
		if c.sessionID != "" {
			n++
		}
	}
	return n
}

// Received returns a copy of every envelope clients sent after their
// session was established.
func (h *Hub) Received() []envelope.Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]envelope.Envelope(nil), h.received...)
}

// Deliver sends env to every session of its recipient identity and
// reports how many sessions received it.
func (h *Hub) Deliver(ctx context.Context, env envelope.Envelope) int {
	to := env.Recipient().Identity()
	n := 0
	for _, c := range h.sessionsOf(to) {
		if h.write(ctx, c, env) == nil {
			n++
		}
	}
	return n
}

func (h *Hub) postmaster() envelope.Node {
	return envelope.Node{Name: "postmaster", Domain: h.domain, Instance: "hub"}
}

func (h *Hub) handle(w http.ResponseWriter, r *http.Request) {
	if h.rejectConnections.Load() {
		http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:       version.SupportedSubprotocols(),
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}
	h.accepted.Add(1)
	h.wg.Add(1)
	defer h.wg.Done()

	c := &hubConn{conn: conn}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		conn.CloseNow()
	}()

	ctx := r.Context()
	if !h.handshake(ctx, c) {
		return
	}
	h.serve(ctx, c)
}

func (h *Hub) read(ctx context.Context, c *hubConn) (envelope.Envelope, error) {
	typ, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	if typ != websocket.MessageBinary {
		return nil, errors.New("unexpected text frame")
	}
	return envelope.Decode(data)
}

func (h *Hub) write(ctx context.Context, c *hubConn, env envelope.Envelope) error {
	data, err := envelope.Encode(env)
	if err != nil {
		return err
	}
	return c.conn.Write(ctx, websocket.MessageBinary, data)
}

func (h *Hub) readSession(ctx context.Context, c *hubConn) (*envelope.Session, error) {
	env, err := h.read(ctx, c)
	if err != nil {
		return nil, err
	}
	s, ok := env.(*envelope.Session)
	if !ok {
		return nil, errors.New("expected session envelope")
	}
	return s, nil
}

func (h *Hub) fail(ctx context.Context, c *hubConn, id string, code int, desc string) {
	_ = h.write(ctx, c, &envelope.Session{
		ID:     id,
		From:   h.postmaster(),
		State:  envelope.SessionFailed,
		Reason: &envelope.Reason{Code: code, Description: desc},
	})
	c.conn.Close(websocket.StatusNormalClosure, desc)
}

func (h *Hub) handshake(ctx context.Context, c *hubConn) bool {
	start, err := h.readSession(ctx, c)
	if err != nil {
		return false
	}
	id := envelope.NewID()
	if start.State != envelope.SessionNew {
		h.fail(ctx, c, id, ReasonUnexpectedState, "expected new session")
		return false
	}

	if d := time.Duration(h.handshakeDelay.Load()); d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return false
		}
	}

	err = h.write(ctx, c, &envelope.Session{
		ID:            id,
		From:          h.postmaster(),
		State:         envelope.SessionAuthenticating,
		SchemeOptions: h.schemes(),
	})
	if err != nil {
		return false
	}

	auth, err := h.readSession(ctx, c)
	if err != nil {
		return false
	}
	if auth.State != envelope.SessionAuthenticating {
		h.fail(ctx, c, id, ReasonUnexpectedState, "expected authenticating session")
		return false
	}
	if !h.authenticate(auth) {
		h.fail(ctx, c, id, ReasonAuthenticationFailed, "invalid credentials")
		return false
	}

	node := auth.From
	if node.Instance == "" {
		node.Instance = "default"
	}

	h.mu.Lock()
	c.node = node
	c.sessionID = id
	h.mu.Unlock()

	err = h.write(ctx, c, &envelope.Session{
		ID:    id,
		From:  h.postmaster(),
		To:    node,
		State: envelope.SessionEstablished,
	})
	if err != nil {
		return false
	}
	h.established.Add(1)
	return true
}

func (h *Hub) schemes() []envelope.AuthenticationScheme {
	var out []envelope.AuthenticationScheme
	if h.guests {
		out = append(out, envelope.SchemeGuest)
	}
	if len(h.passwords) > 0 {
		out = append(out, envelope.SchemePlain)
	}
	if len(h.keys) > 0 {
		out = append(out, envelope.SchemeKey)
	}
	return out
}

func (h *Hub) authenticate(s *envelope.Session) bool {
	auth, err := s.Authentication()
	if err != nil {
		return false
	}
	identity := s.From.Identity().String()
	switch a := auth.(type) {
	case envelope.GuestAuthentication:
		return h.guests
	case envelope.PlainAuthentication:
		pw, ok := h.passwords[identity]
		return ok && pw == a.Password
	case envelope.KeyAuthentication:
		key, ok := h.keys[identity]
		return ok && key == a.Key
	}
	return false
}

func (h *Hub) serve(ctx context.Context, c *hubConn) {
	for {
		env, err := h.read(ctx, c)
		if err != nil {
			return
		}

		if s, ok := env.(*envelope.Session); ok {
			if s.State == envelope.SessionFinishing {
				_ = h.write(ctx, c, &envelope.Session{
					ID:    c.sessionID,
					From:  h.postmaster(),
					To:    c.node,
					State: envelope.SessionFinished,
				})
				c.conn.Close(websocket.StatusNormalClosure, "finished")
				return
			}
			continue
		}

		switch e := env.(type) {
		case *envelope.Message:
			e.From = c.node
		case *envelope.Command:
			e.From = c.node
		case *envelope.Notification:
			e.From = c.node
		}

		h.mu.Lock()
		h.received = append(h.received, env)
		h.mu.Unlock()

		switch e := env.(type) {
		case *envelope.Message:
			h.routeMessage(ctx, c, e)
		case *envelope.Command:
			h.routeCommand(ctx, c, e)
		case *envelope.Notification:
			h.Deliver(ctx, e)
		}
	}
}

func (h *Hub) routeMessage(ctx context.Context, c *hubConn, m *envelope.Message) {
	if m.ID != "" {
		_ = h.write(ctx, c, &envelope.Notification{
			ID:    m.ID,
			From:  h.postmaster(),
			To:    c.node,
			Event: envelope.EventAccepted,
		})
	}

	if m.To.Name == "echo" && m.To.Domain == h.domain {
		echo := *m
		echo.From = m.To
		echo.To = c.node
		_ = h.write(ctx, c, &echo)
		return
	}
	h.Deliver(ctx, m)
}

func (h *Hub) routeCommand(ctx context.Context, c *hubConn, cmd *envelope.Command) {
	if cmd.To.IsZero() || (cmd.To.Name == "postmaster" && cmd.To.Domain == h.domain) {
		resp := &envelope.Command{
			ID:     cmd.ID,
			From:   h.postmaster(),
			To:     c.node,
			Method: cmd.Method,
			Status: envelope.CommandSuccess,
		}
		if cmd.Method != envelope.MethodGet || strings.TrimSuffix(cmd.URI, "/") != "/ping" {
			resp.Status = envelope.CommandFailure
			resp.Reason = &envelope.Reason{Code: ReasonNotFound, Description: "resource not found"}
		}
		_ = h.write(ctx, c, resp)
		return
	}
	h.Deliver(ctx, cmd)
}

func (h *Hub) sessionsOf(id envelope.Identity) []*hubConn {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*hubConn
	for c := range h.conns {
		if c.sessionID != "" && c.node.Identity() == id {
			out = append(out, c)
		}
	}
	return out
}
