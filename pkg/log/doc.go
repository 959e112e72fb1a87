// Package log provides structured protocol capture for hub channels.
//
// This package defines the Logger interface and Event types for recording
// what happens on a channel at several layers (transport frames, decoded
// envelopes, channel lifecycle). It is separate from operational logging
// (slog): protocol capture is a complete machine-readable trace that can be
// replayed with the hub-log tool.
//
// # Basic Usage
//
//	// Development: print events through slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// Production: append to a binary capture file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/hubclient/bot.hlog")
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events with the .hlog
// extension.
package log
