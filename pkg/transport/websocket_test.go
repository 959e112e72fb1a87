package transport_test

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msghub/hubclient-go/internal/hubtest"
	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/log"
	"github.com/msghub/hubclient-go/pkg/transport"
)

type eventLog struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *eventLog) Log(e log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) Events() []log.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]log.Event(nil), l.events...)
}

func testConfig() transport.WebSocketConfig {
	cfg := transport.DefaultWebSocketConfig()
	cfg.KeepAlive = nil
	return cfg
}

func openTransport(t *testing.T, hub *hubtest.Hub, cfg transport.WebSocketConfig) *transport.WebSocketTransport {
	t.Helper()
	tr := transport.NewWebSocketTransport(cfg)
	t.Cleanup(func() { _ = tr.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, tr.Open(ctx, hub.URL()))
	return tr
}

// handshake runs the client side of a guest session by hand.
func handshake(t *testing.T, tr transport.Transport) *envelope.Session {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, tr.Send(ctx, &envelope.Session{State: envelope.SessionNew}))
	offer, err := tr.ReceiveSession(ctx)
	require.NoError(t, err)
	require.Equal(t, envelope.SessionAuthenticating, offer.State)
	require.True(t, offer.OffersScheme(envelope.SchemeGuest))

	auth := &envelope.Session{
		ID:    offer.ID,
		From:  envelope.MustParseNode("guest@hub.test/ws"),
		State: envelope.SessionAuthenticating,
	}
	auth.SetAuthentication(envelope.GuestAuthentication{})
	require.NoError(t, tr.Send(ctx, auth))

	established, err := tr.ReceiveSession(ctx)
	require.NoError(t, err)
	require.Equal(t, envelope.SessionEstablished, established.State)
	return established
}

func TestWebSocket_InvalidEndpoint(t *testing.T) {
	tr := transport.NewWebSocketTransport(testConfig())

	for _, raw := range []string{"http://hub.example/hub", "ws:///hub"} {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.ErrorIs(t, tr.Open(context.Background(), u), transport.ErrInvalidEndpoint, raw)
	}
	assert.ErrorIs(t, tr.Open(context.Background(), nil), transport.ErrInvalidEndpoint)
	assert.False(t, tr.IsConnected())
}

func TestWebSocket_SessionAndEcho(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests())
	tr := openTransport(t, hub, testConfig())
	assert.True(t, tr.IsConnected())
	assert.Equal(t, transport.StateConnected, tr.State())
	assert.Equal(t, "msghub.v1", tr.Subprotocol())

	s := handshake(t, tr)
	assert.Equal(t, "guest@hub.test/ws", s.To.String())
	assert.Equal(t, 1, hub.Established())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := envelope.NewTextMessage(envelope.MustParseNode("echo@hub.test"), "ping")
	require.NoError(t, tr.Send(ctx, msg))

	n, err := tr.ReceiveNotification(ctx)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, n.ID)

	echo, err := tr.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ping", echo.Text())

	cmd := &envelope.Command{ID: envelope.NewID(), Method: envelope.MethodGet, URI: "/ping"}
	require.NoError(t, tr.Send(ctx, cmd))
	resp, err := tr.ReceiveCommand(ctx)
	require.NoError(t, err)
	assert.Equal(t, envelope.CommandSuccess, resp.Status)
}

func TestWebSocket_SendInvalidEnvelope(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests())
	tr := openTransport(t, hub, testConfig())

	err := tr.Send(context.Background(), &envelope.Message{})
	assert.ErrorIs(t, err, envelope.ErrMissingMediaType)
	assert.True(t, tr.IsConnected(), "encoding errors keep the connection")
}

func TestWebSocket_HubDropsConnection(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests())
	tr := openTransport(t, hub, testConfig())
	handshake(t, tr)

	hub.KickAll()

	require.Eventually(t, func() bool { return !tr.IsConnected() }, 2*time.Second, 5*time.Millisecond)
	_, err := tr.ReceiveMessage(context.Background())
	assert.ErrorIs(t, err, transport.ErrConnectionClosed)
	assert.ErrorIs(t, tr.Send(context.Background(), envelope.NewTextMessage(envelope.Node{}, "x")), transport.ErrNotConnected)
}

func TestWebSocket_TerminalSessionDropsConnection(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests())
	tr := openTransport(t, hub, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The hub rejects a session that does not start as new.
	require.NoError(t, tr.Send(ctx, &envelope.Session{State: envelope.SessionFinishing}))

	s, err := tr.ReceiveSession(ctx)
	require.NoError(t, err, "envelopes queued before the drop are still delivered")
	assert.Equal(t, envelope.SessionFailed, s.State)
	require.NotNil(t, s.Reason)
	assert.Equal(t, hubtest.ReasonUnexpectedState, s.Reason.Code)

	require.Eventually(t, func() bool { return !tr.IsConnected() }, 2*time.Second, 5*time.Millisecond)
	_, err = tr.ReceiveSession(ctx)
	assert.ErrorIs(t, err, transport.ErrConnectionClosed)
	assert.ErrorIs(t, err, transport.ErrSessionTerminated)
}

func TestWebSocket_CloseAndReopen(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests())
	tr := openTransport(t, hub, testConfig())

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.False(t, tr.IsConnected())

	_, err := tr.ReceiveCommand(context.Background())
	assert.ErrorIs(t, err, transport.ErrNotConnected)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, tr.Open(ctx, hub.URL()))
	handshake(t, tr)

	// Opening again discards the live connection.
	require.NoError(t, tr.Open(ctx, hub.URL()))
	handshake(t, tr)
	assert.Equal(t, 3, hub.Accepted())
	assert.Eventually(t, func() bool { return hub.Connections() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestWebSocket_ReceiveCancelled(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests())
	tr := openTransport(t, hub, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tr.ReceiveNotification(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, tr.IsConnected())
}

func TestWebSocket_OpenRejected(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests())
	hub.SetRejectConnections(true)

	plog := &eventLog{}
	cfg := testConfig()
	cfg.ProtocolLogger = plog
	tr := transport.NewWebSocketTransport(cfg)

	err := tr.Open(context.Background(), hub.URL())
	require.Error(t, err)
	assert.Equal(t, transport.StateDisconnected, tr.State())

	var sawError bool
	for _, e := range plog.Events() {
		if e.Error != nil && e.Error.Context == "open" {
			sawError = true
		}
	}
	assert.True(t, sawError, "dial failures are captured")
}

func TestWebSocket_ProtocolLog(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests())

	plog := &eventLog{}
	var mu sync.Mutex
	var states []transport.ConnectionState

	cfg := testConfig()
	cfg.ProtocolLogger = plog
	cfg.ChannelID = "chan-1"
	cfg.OnStateChange = func(_, s transport.ConnectionState) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}

	tr := openTransport(t, hub, cfg)
	s := handshake(t, tr)
	require.NoError(t, tr.Close())

	mu.Lock()
	assert.Equal(t, []transport.ConnectionState{
		transport.StateConnecting,
		transport.StateConnected,
		transport.StateClosing,
		transport.StateDisconnected,
	}, states)
	mu.Unlock()

	var frames, envelopes, sessionTagged, closes int
	for _, e := range plog.Events() {
		assert.Equal(t, "chan-1", e.ChannelID)
		assert.Equal(t, log.LayerTransport, e.Layer)
		switch {
		case e.Frame != nil:
			frames++
		case e.Envelope != nil:
			envelopes++
			if e.SessionID == s.ID {
				sessionTagged++
			}
		case e.Control != nil && e.Control.Type == log.ControlClose:
			closes++
		}
	}
	assert.Equal(t, 4, frames)
	assert.Equal(t, 4, envelopes)
	assert.Equal(t, 3, sessionTagged, "hub session envelopes and the authenticating request carry the id")
	assert.Equal(t, 1, closes)
}

func TestWebSocket_TLS(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests(), hubtest.WithTLS())
	assert.Equal(t, "wss", hub.URL().Scheme)

	t.Run("UntrustedCertificate", func(t *testing.T) {
		tr := transport.NewWebSocketTransport(testConfig())
		err := tr.Open(context.Background(), hub.URL())
		assert.Error(t, err)
	})

	t.Run("TrustedClient", func(t *testing.T) {
		cfg := testConfig()
		cfg.HTTPClient = hub.HTTPClient()
		tr := openTransport(t, hub, cfg)
		handshake(t, tr)
	})

	t.Run("InsecureSkipVerify", func(t *testing.T) {
		cfg := testConfig()
		cfg.TLS.InsecureSkipVerify = true
		tr := openTransport(t, hub, cfg)
		handshake(t, tr)
	})
}

func TestWebSocket_KeepAlive(t *testing.T) {
	hub := hubtest.New(t, hubtest.WithGuests())

	cfg := testConfig()
	cfg.KeepAlive = &transport.KeepAliveConfig{
		PingInterval:   10 * time.Millisecond,
		PongTimeout:    time.Second,
		MaxMissedPongs: 3,
	}
	tr := openTransport(t, hub, cfg)
	handshake(t, tr)

	require.Eventually(t, func() bool {
		stats, ok := tr.KeepAliveStats()
		return ok && stats.PingsSent >= 2 && !stats.LastPongTime.IsZero()
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, tr.IsConnected())
}
