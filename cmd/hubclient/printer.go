package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/listener"
)

// printer writes received envelopes, one line each.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *printer) message(_ context.Context, msg *envelope.Message, _ listener.Sender) error {
	if msg.Type == envelope.MediaTypeTextPlain {
		p.printf("[MSG] %s: %s\n", msg.From, msg.Text())
		return nil
	}
	p.printf("[MSG] %s: <%s, %d bytes>\n", msg.From, msg.Type, len(msg.Content))
	return nil
}

func (p *printer) notification(_ context.Context, n *envelope.Notification, _ listener.Sender) error {
	if n.Reason != nil {
		p.printf("[NOTIFY] %s %s from %s (%s)\n", n.ID, n.Event, n.From, n.Reason)
		return nil
	}
	p.printf("[NOTIFY] %s %s from %s\n", n.ID, n.Event, n.From)
	return nil
}

func (p *printer) command(_ context.Context, cmd *envelope.Command, _ listener.Sender) error {
	switch {
	case cmd.Status == envelope.CommandPending:
		p.printf("[CMD] %s %s %s from %s\n", cmd.ID, cmd.Method, cmd.URI, cmd.From)
	case cmd.Reason != nil:
		p.printf("[CMD] %s %s: %s (%s)\n", cmd.ID, cmd.Method, cmd.Status, cmd.Reason)
	default:
		p.printf("[CMD] %s %s: %s\n", cmd.ID, cmd.Method, cmd.Status)
	}
	return nil
}
