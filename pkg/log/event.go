package log

import (
	"time"

	"github.com/msghub/hubclient-go/pkg/envelope"
)

// Event is a protocol event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`

	// ChannelID identifies the channel instance (UUID). It survives
	// reconnections, so one ID covers every session of a channel.
	ChannelID string `cbor:"2,keyasint"`

	Direction Direction `cbor:"3,keyasint"`
	Layer     Layer     `cbor:"4,keyasint"`
	Category  Category  `cbor:"5,keyasint"`

	// Endpoint is the hub URI the channel talks to.
	Endpoint string `cbor:"6,keyasint,omitempty"`

	// SessionID is set once a session has been established.
	SessionID string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Envelope    *EnvelopeEvent    `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Control     *ControlEvent     `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Direction indicates the direction of traffic.
type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where the event was captured.
type Layer uint8

const (
	// LayerTransport is the WebSocket frame layer.
	LayerTransport Layer = 0
	// LayerEnvelope is the decoded envelope layer.
	LayerEnvelope Layer = 1
	// LayerChannel is the persistent channel (lifecycle, reconnection).
	LayerChannel Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerEnvelope:
		return "ENVELOPE"
	case LayerChannel:
		return "CHANNEL"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event.
type Category uint8

const (
	CategoryEnvelope Category = 0
	CategoryControl  Category = 1
	CategoryState    Category = 2
	CategoryError    Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryEnvelope:
		return "ENVELOPE"
	case CategoryControl:
		return "CONTROL"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures a raw WebSocket frame.
type FrameEvent struct {
	// Size is the frame payload size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the payload, truncated to MaxLogFrameDataSize.
	Data []byte `cbor:"2,keyasint,omitempty"`

	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MaxLogFrameDataSize caps the frame bytes copied into an event.
const MaxLogFrameDataSize = 4096

// NewFrameEvent builds a frame event, truncating large payloads.
func NewFrameEvent(data []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(data)}
	if len(data) > MaxLogFrameDataSize {
		fe.Data = append([]byte(nil), data[:MaxLogFrameDataSize]...)
		fe.Truncated = true
	} else {
		fe.Data = append([]byte(nil), data...)
	}
	return fe
}

// EnvelopeEvent summarizes a decoded envelope. Content bytes are not
// captured.
type EnvelopeEvent struct {
	Kind      envelope.Kind `cbor:"1,keyasint"`
	ID        string        `cbor:"2,keyasint,omitempty"`
	From      string        `cbor:"3,keyasint,omitempty"`
	To        string        `cbor:"4,keyasint,omitempty"`
	MediaType string        `cbor:"5,keyasint,omitempty"`
	Method    string        `cbor:"6,keyasint,omitempty"`
	URI       string        `cbor:"7,keyasint,omitempty"`
	Status    string        `cbor:"8,keyasint,omitempty"`
	Event     string        `cbor:"9,keyasint,omitempty"`
	State     string        `cbor:"10,keyasint,omitempty"`
	Reason    string        `cbor:"11,keyasint,omitempty"`
}

// NewEnvelopeEvent summarizes env.
func NewEnvelopeEvent(env envelope.Envelope) *EnvelopeEvent {
	ev := &EnvelopeEvent{
		Kind: env.Kind(),
		ID:   env.EnvelopeID(),
		From: env.Sender().String(),
		To:   env.Recipient().String(),
	}
	switch e := env.(type) {
	case *envelope.Message:
		ev.MediaType = string(e.Type)
	case *envelope.Command:
		ev.Method = string(e.Method)
		ev.URI = e.URI
		ev.MediaType = string(e.Type)
		ev.Status = e.Status.String()
		ev.Reason = e.Reason.String()
	case *envelope.Notification:
		ev.Event = string(e.Event)
		ev.Reason = e.Reason.String()
	case *envelope.Session:
		ev.State = e.State.String()
		ev.Reason = e.Reason.String()
	}
	return ev
}

// StateChangeEvent captures channel, transport and session lifecycle.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what changed state.
type StateEntity uint8

const (
	StateEntityTransport StateEntity = 0
	StateEntitySession   StateEntity = 1
	StateEntityChannel   StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityTransport:
		return "TRANSPORT"
	case StateEntitySession:
		return "SESSION"
	case StateEntityChannel:
		return "CHANNEL"
	default:
		return "UNKNOWN"
	}
}

// ControlEvent captures WebSocket control traffic.
type ControlEvent struct {
	Type ControlType `cbor:"1,keyasint"`

	// Latency is the ping round trip, set on pongs.
	Latency time.Duration `cbor:"2,keyasint,omitempty"`
}

// ControlType indicates the type of control frame.
type ControlType uint8

const (
	ControlPing  ControlType = 0
	ControlPong  ControlType = 1
	ControlClose ControlType = 2
)

// String returns the control type name.
func (c ControlType) String() string {
	switch c {
	case ControlPing:
		return "PING"
	case ControlPong:
		return "PONG"
	case ControlClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer, including the ones the
// reconnect loop swallows.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Context describes what was being attempted ("open", "handshake", ...).
	Context string `cbor:"3,keyasint,omitempty"`

	// Attempt is the reconnect attempt number, if any.
	Attempt int `cbor:"4,keyasint,omitempty"`
}
