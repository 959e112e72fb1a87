package envelope

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the envelope type carried by a frame.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMessage
	KindCommand
	KindNotification
	KindSession
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "MESSAGE"
	case KindCommand:
		return "COMMAND"
	case KindNotification:
		return "NOTIFICATION"
	case KindSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// Envelope is implemented by every unit of traffic exchanged with the hub.
type Envelope interface {
	EnvelopeID() string
	Kind() Kind
	Sender() Node
	Recipient() Node
}

// Validation errors.
var (
	ErrMissingMediaType = errors.New("missing media type")
	ErrMissingMethod    = errors.New("missing command method")
	ErrMissingURI       = errors.New("missing command uri")
	ErrMissingEvent     = errors.New("missing notification event")
)

// NewID returns a fresh envelope identifier.
func NewID() string {
	return uuid.NewString()
}

// MediaType is a MIME type describing message or resource content.
type MediaType string

// Well-known media types.
const (
	MediaTypeTextPlain MediaType = "text/plain"
	MediaTypeJSON      MediaType = "application/json"
)

// Reason describes why an operation failed or an event happened.
type Reason struct {
	Code        int    `cbor:"1,keyasint"`
	Description string `cbor:"2,keyasint,omitempty"`
}

// String formats the reason for logs and errors.
func (r *Reason) String() string {
	if r == nil {
		return ""
	}
	if r.Description == "" {
		return fmt.Sprintf("code %d", r.Code)
	}
	return fmt.Sprintf("%s (code %d)", r.Description, r.Code)
}

// Message carries application content.
//
// CBOR encoding:
//
//	{
//	  1: id,        // string, optional for fire-and-forget
//	  2: from,      // node string
//	  3: to,        // node string
//	  4: type,      // media type
//	  5: content    // bytes
//	}
type Message struct {
	ID      string    `cbor:"1,keyasint,omitempty"`
	From    Node      `cbor:"2,keyasint"`
	To      Node      `cbor:"3,keyasint"`
	Type    MediaType `cbor:"4,keyasint"`
	Content []byte    `cbor:"5,keyasint,omitempty"`
}

// NewTextMessage builds a text/plain message with a fresh ID.
func NewTextMessage(to Node, text string) *Message {
	return &Message{
		ID:      NewID(),
		To:      to,
		Type:    MediaTypeTextPlain,
		Content: []byte(text),
	}
}

func (m *Message) EnvelopeID() string { return m.ID }
func (m *Message) Kind() Kind         { return KindMessage }
func (m *Message) Sender() Node       { return m.From }
func (m *Message) Recipient() Node    { return m.To }

// Text returns the content as a string.
func (m *Message) Text() string {
	return string(m.Content)
}

// Validate checks the message before it is sent.
func (m *Message) Validate() error {
	if m.Type == "" {
		return ErrMissingMediaType
	}
	return nil
}

// CommandMethod is the operation a command performs on its URI.
type CommandMethod string

// Command methods.
const (
	MethodGet       CommandMethod = "get"
	MethodSet       CommandMethod = "set"
	MethodDelete    CommandMethod = "delete"
	MethodObserve   CommandMethod = "observe"
	MethodSubscribe CommandMethod = "subscribe"
)

// IsValid reports whether the method is known.
func (m CommandMethod) IsValid() bool {
	switch m {
	case MethodGet, MethodSet, MethodDelete, MethodObserve, MethodSubscribe:
		return true
	}
	return false
}

// CommandStatus is the outcome carried by a command response.
type CommandStatus uint8

const (
	CommandPending CommandStatus = iota
	CommandSuccess
	CommandFailure
)

// String returns the status name.
func (s CommandStatus) String() string {
	switch s {
	case CommandPending:
		return "PENDING"
	case CommandSuccess:
		return "SUCCESS"
	case CommandFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Command is a request on a resource, or the response to one.
type Command struct {
	ID       string        `cbor:"1,keyasint,omitempty"`
	From     Node          `cbor:"2,keyasint"`
	To       Node          `cbor:"3,keyasint"`
	Method   CommandMethod `cbor:"4,keyasint"`
	URI      string        `cbor:"5,keyasint,omitempty"`
	Type     MediaType     `cbor:"6,keyasint,omitempty"`
	Resource []byte        `cbor:"7,keyasint,omitempty"`
	Status   CommandStatus `cbor:"8,keyasint,omitempty"`
	Reason   *Reason       `cbor:"9,keyasint,omitempty"`
}

func (c *Command) EnvelopeID() string { return c.ID }
func (c *Command) Kind() Kind         { return KindCommand }
func (c *Command) Sender() Node       { return c.From }
func (c *Command) Recipient() Node    { return c.To }

// Validate checks the command before it is sent. Responses only need a
// method; requests also need a URI.
func (c *Command) Validate() error {
	if !c.Method.IsValid() {
		return fmt.Errorf("%w: %q", ErrMissingMethod, c.Method)
	}
	if c.Status == CommandPending && c.URI == "" {
		return ErrMissingURI
	}
	return nil
}

// Event is a message delivery event reported through notifications.
type Event string

// Notification events, in delivery order.
const (
	EventAccepted   Event = "accepted"
	EventValidated  Event = "validated"
	EventAuthorized Event = "authorized"
	EventDispatched Event = "dispatched"
	EventReceived   Event = "received"
	EventConsumed   Event = "consumed"
	EventFailed     Event = "failed"
)

// Notification reports an event about the message with the same ID.
type Notification struct {
	ID     string  `cbor:"1,keyasint"`
	From   Node    `cbor:"2,keyasint"`
	To     Node    `cbor:"3,keyasint"`
	Event  Event   `cbor:"4,keyasint"`
	Reason *Reason `cbor:"5,keyasint,omitempty"`
}

func (n *Notification) EnvelopeID() string { return n.ID }
func (n *Notification) Kind() Kind         { return KindNotification }
func (n *Notification) Sender() Node       { return n.From }
func (n *Notification) Recipient() Node    { return n.To }

// Validate checks the notification before it is sent.
func (n *Notification) Validate() error {
	if n.Event == "" {
		return ErrMissingEvent
	}
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ Envelope = (*Message)(nil)
	_ Envelope = (*Command)(nil)
	_ Envelope = (*Notification)(nil)
	_ Envelope = (*Session)(nil)
)
