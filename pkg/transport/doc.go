// Package transport carries envelopes between a client and a hub.
//
// The transport layer handles:
//   - WebSocket connections (ws:// and wss://)
//   - One CBOR-encoded envelope per binary frame
//   - Demultiplexing received envelopes into per-kind queues
//   - Keep-alive pings for connection liveness
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│   Envelopes (CBOR, kind-tagged)│
//	├────────────────────────────────┤
//	│   WebSocket binary frames      │
//	├────────────────────────────────┤
//	│   TLS (wss) / plain (ws)       │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// # Keep-Alive
//
// Liveness is monitored with WebSocket ping/pong control frames:
//   - Ping interval: 30 seconds
//   - Pong timeout: 5 seconds
//   - Max missed pongs: 3
//   - Maximum detection delay: 95 seconds
//
// A transport does not reconnect by itself. Once the connection drops,
// IsConnected reports false until the next successful Open.
package transport
