package listener

import (
	"context"

	"github.com/msghub/hubclient-go/pkg/envelope"
)

// Sender is handed to receivers so they can reply.
type Sender interface {
	SendMessage(ctx context.Context, msg *envelope.Message) error
	SendCommand(ctx context.Context, cmd *envelope.Command) error
	SendNotification(ctx context.Context, n *envelope.Notification) error
}

// Source is what a Listener reads from. *channel.Channel implements it.
type Source interface {
	Sender
	ReceiveMessage(ctx context.Context) (*envelope.Message, error)
	ReceiveCommand(ctx context.Context) (*envelope.Command, error)
	ReceiveNotification(ctx context.Context) (*envelope.Notification, error)
}

// MessageReceiver handles received messages.
type MessageReceiver interface {
	ReceiveMessage(ctx context.Context, msg *envelope.Message, s Sender) error
}

// NotificationReceiver handles received notifications.
type NotificationReceiver interface {
	ReceiveNotification(ctx context.Context, n *envelope.Notification, s Sender) error
}

// CommandReceiver handles received commands.
type CommandReceiver interface {
	ReceiveCommand(ctx context.Context, cmd *envelope.Command, s Sender) error
}

// MessageReceiverFunc adapts a function to MessageReceiver.
type MessageReceiverFunc func(ctx context.Context, msg *envelope.Message, s Sender) error

func (f MessageReceiverFunc) ReceiveMessage(ctx context.Context, msg *envelope.Message, s Sender) error {
	return f(ctx, msg, s)
}

// NotificationReceiverFunc adapts a function to NotificationReceiver.
type NotificationReceiverFunc func(ctx context.Context, n *envelope.Notification, s Sender) error

func (f NotificationReceiverFunc) ReceiveNotification(ctx context.Context, n *envelope.Notification, s Sender) error {
	return f(ctx, n, s)
}

// CommandReceiverFunc adapts a function to CommandReceiver.
type CommandReceiverFunc func(ctx context.Context, cmd *envelope.Command, s Sender) error

func (f CommandReceiverFunc) ReceiveCommand(ctx context.Context, cmd *envelope.Command, s Sender) error {
	return f(ctx, cmd, s)
}

// MessageFilter selects the messages a receiver gets.
type MessageFilter func(msg *envelope.Message) bool

// ForMediaType matches messages of the given media type.
func ForMediaType(mt envelope.MediaType) MessageFilter {
	return func(msg *envelope.Message) bool {
		return msg.Type == mt
	}
}

// FromIdentity matches messages sent by any node of the identity.
func FromIdentity(id envelope.Identity) MessageFilter {
	return func(msg *envelope.Message) bool {
		return msg.From.Identity() == id
	}
}

// CommandFilter selects the commands a receiver gets.
type CommandFilter func(cmd *envelope.Command) bool

// ForURI matches pending commands addressed to uri.
func ForURI(uri string) CommandFilter {
	return func(cmd *envelope.Command) bool {
		return cmd.Status == envelope.CommandPending && cmd.URI == uri
	}
}
