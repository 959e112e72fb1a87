// Package envelope defines the envelope types exchanged with a messaging hub.
//
// There are four envelope kinds:
//   - Message: application content addressed to a node
//   - Command: a request/response operation on a resource URI
//   - Notification: delivery events about a previously sent message
//   - Session: negotiation and authentication of the session itself
//
// # Framing
//
// Each envelope travels as a single CBOR (RFC 8949) frame with integer keys.
// The frame carries a kind tag and the encoded body, so a receiver can
// demultiplex without peeking into the body:
//
//	{
//	  1: kind,   // uint8: 1=message, 2=command, 3=notification, 4=session
//	  2: body    // CBOR-encoded envelope
//	}
//
// # Addressing
//
// Nodes are written as name@domain/instance. An Identity is a node without
// instance and is what a client authenticates as.
package envelope
