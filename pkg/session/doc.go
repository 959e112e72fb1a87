// Package session establishes authenticated sessions with a hub.
//
// A session is negotiated with session envelopes exchanged over an open
// transport:
//
//	client                         hub
//	  │  Session{state: new}        │
//	  │ ──────────────────────────▶ │
//	  │  Session{authenticating,    │
//	  │          id, schemes}       │
//	  │ ◀────────────────────────── │
//	  │  Session{authenticating,    │
//	  │          from, scheme, auth}│
//	  │ ──────────────────────────▶ │
//	  │  Session{established}       │
//	  │     or Session{failed}      │
//	  │ ◀────────────────────────── │
//
// Establish does not retry. Reconnection is handled by the connection
// package.
package session
