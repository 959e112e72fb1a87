package channel_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/log"
	"github.com/msghub/hubclient-go/pkg/session"
	"github.com/msghub/hubclient-go/pkg/transport"
)

var errOpenRefused = errors.New("dial refused")

// fakeTransport is an in-memory transport whose failures are scripted.
type fakeTransport struct {
	connected atomic.Bool
	opens     atomic.Int32
	sends     atomic.Int32

	// openFailures is the number of Opens that fail before one succeeds;
	// negative fails forever.
	openFailures atomic.Int32
	// dropAfter disconnects after that many successful sends (0 = never).
	dropAfter atomic.Int32
	sendErr   atomic.Pointer[error]

	messages      chan *envelope.Message
	commands      chan *envelope.Command
	notifications chan *envelope.Notification

	mu   sync.Mutex
	sent []envelope.Envelope
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		messages:      make(chan *envelope.Message, 16),
		commands:      make(chan *envelope.Command, 16),
		notifications: make(chan *envelope.Notification, 16),
	}
}

func (f *fakeTransport) Open(ctx context.Context, _ *url.URL) error {
	f.opens.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := f.openFailures.Load(); n != 0 {
		if n > 0 {
			f.openFailures.Add(-1)
		}
		return errOpenRefused
	}
	f.connected.Store(true)
	return nil
}

func (f *fakeTransport) IsConnected() bool { return f.connected.Load() }

func (f *fakeTransport) Send(_ context.Context, env envelope.Envelope) error {
	if !f.connected.Load() {
		return transport.ErrNotConnected
	}
	if p := f.sendErr.Load(); p != nil {
		return *p
	}
	f.mu.Lock()
	f.sent = append(f.sent, env)
	f.mu.Unlock()

	n := f.sends.Add(1)
	if limit := f.dropAfter.Load(); limit > 0 && n >= limit {
		f.connected.Store(false)
	}
	return nil
}

func (f *fakeTransport) Sent() []envelope.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]envelope.Envelope(nil), f.sent...)
}

func recv[T any](ctx context.Context, ch chan T) (T, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *fakeTransport) ReceiveMessage(ctx context.Context) (*envelope.Message, error) {
	return recv(ctx, f.messages)
}

func (f *fakeTransport) ReceiveCommand(ctx context.Context) (*envelope.Command, error) {
	return recv(ctx, f.commands)
}

func (f *fakeTransport) ReceiveNotification(ctx context.Context) (*envelope.Notification, error) {
	return recv(ctx, f.notifications)
}

func (f *fakeTransport) ReceiveSession(ctx context.Context) (*envelope.Session, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeTransport) Close() error {
	f.connected.Store(false)
	return nil
}

// fakeEstablisher hands out sessions without a handshake.
type fakeEstablisher struct {
	calls atomic.Int32
	// hang blocks Establish until ctx is done.
	hang atomic.Bool
	// gate, when set, holds Establish until it is closed.
	gate atomic.Pointer[chan struct{}]
}

func (f *fakeEstablisher) Establish(ctx context.Context, _ session.Transport, id envelope.Identity, _ envelope.Authentication) (*session.Session, error) {
	f.calls.Add(1)
	if f.hang.Load() {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if g := f.gate.Load(); g != nil {
		select {
		case <-*g:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return session.New(envelope.NewID(), id.Node("test"), envelope.Node{Name: "postmaster", Domain: id.Domain}), nil
}

// recordingLogger keeps every protocol event in memory.
type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingLogger) Log(ev log.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recordingLogger) Events() []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Event(nil), r.events...)
}

var (
	_ log.Logger          = (*recordingLogger)(nil)
	_ transport.Transport = (*fakeTransport)(nil)
	_ session.Establisher = (*fakeEstablisher)(nil)
)
