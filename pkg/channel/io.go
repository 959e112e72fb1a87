package channel

import (
	"context"

	"github.com/msghub/hubclient-go/pkg/envelope"
)

// SendMessage sends msg, reconnecting first if needed. The reconnect wait
// is bounded by SendTimeout.
func (c *Channel) SendMessage(ctx context.Context, msg *envelope.Message) error {
	if c.cfg.FillEnvelopeRecipients && msg.From.IsZero() {
		msg.From = c.localNode()
	}
	return c.send(ctx, msg)
}

// SendCommand sends cmd, reconnecting first if needed. A command without
// an ID gets a fresh one so its response can be matched.
func (c *Channel) SendCommand(ctx context.Context, cmd *envelope.Command) error {
	if cmd.ID == "" {
		cmd.ID = envelope.NewID()
	}
	if c.cfg.FillEnvelopeRecipients && cmd.From.IsZero() {
		cmd.From = c.localNode()
	}
	return c.send(ctx, cmd)
}

// SendNotification sends n, reconnecting first if needed.
func (c *Channel) SendNotification(ctx context.Context, n *envelope.Notification) error {
	if c.cfg.FillEnvelopeRecipients && n.From.IsZero() {
		n.From = c.localNode()
	}
	return c.send(ctx, n)
}

// ReceiveMessage waits for the next message. If the channel is down it
// reconnects first, waiting as long as ctx allows.
func (c *Channel) ReceiveMessage(ctx context.Context) (*envelope.Message, error) {
	msg, err := receive(ctx, c, c.transport.ReceiveMessage)
	if err != nil {
		return nil, err
	}
	if c.cfg.AutoNotifyReceipt && msg.ID != "" {
		c.notifyReceipt(ctx, msg)
	}
	return msg, nil
}

// ReceiveCommand waits for the next command. Ping requests are answered
// and skipped when AutoReplyPings is set.
func (c *Channel) ReceiveCommand(ctx context.Context) (*envelope.Command, error) {
	for {
		cmd, err := receive(ctx, c, c.transport.ReceiveCommand)
		if err != nil {
			return nil, err
		}
		if c.cfg.AutoReplyPings && isPingRequest(cmd) {
			c.replyPing(ctx, cmd)
			continue
		}
		return cmd, nil
	}
}

// ReceiveNotification waits for the next notification.
func (c *Channel) ReceiveNotification(ctx context.Context) (*envelope.Notification, error) {
	return receive(ctx, c, c.transport.ReceiveNotification)
}

// send delegates to the transport once connected. Transport errors are
// returned unchanged.
func (c *Channel) send(ctx context.Context, env envelope.Envelope) error {
	if !c.IsConnected() {
		if err := c.ensureBounded(ctx); err != nil {
			return err
		}
	}
	return c.transport.Send(ctx, env)
}

// receive delegates to recv once connected, waiting on the caller's ctx.
func receive[T envelope.Envelope](ctx context.Context, c *Channel, recv func(context.Context) (T, error)) (T, error) {
	if !c.IsConnected() {
		if err := c.EnsureConnected(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
	return recv(ctx)
}

func (c *Channel) localNode() envelope.Node {
	if s := c.Session(); s != nil {
		return s.LocalNode()
	}
	return c.cfg.Identity.Node(c.cfg.Instance)
}

func isPingRequest(cmd *envelope.Command) bool {
	return cmd.Method == envelope.MethodGet &&
		cmd.Status == envelope.CommandPending &&
		cmd.URI == "/ping"
}

func (c *Channel) replyPing(ctx context.Context, cmd *envelope.Command) {
	err := c.transport.Send(ctx, &envelope.Command{
		ID:     cmd.ID,
		To:     cmd.From,
		Method: envelope.MethodGet,
		Status: envelope.CommandSuccess,
	})
	if err != nil && c.logger != nil {
		c.logger.Debug("channel: ping reply failed", "error", err)
	}
}

func (c *Channel) notifyReceipt(ctx context.Context, msg *envelope.Message) {
	err := c.transport.Send(ctx, &envelope.Notification{
		ID:    msg.ID,
		To:    msg.From,
		Event: envelope.EventReceived,
	})
	if err != nil && c.logger != nil {
		c.logger.Debug("channel: receipt notification failed", "error", err)
	}
}
