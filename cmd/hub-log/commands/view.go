package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/log"
)

// RunView prints every event matching filter in a human-readable form.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}

// formatEvent writes one event: a header line, its details and a blank
// line.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	layer := event.Layer.String()
	if event.Category == log.CategoryControl {
		layer = "CTRL"
	}

	fmt.Fprintf(w, "%s [chan:%s] %-3s %s %s\n", ts, shortID(event.ChannelID), event.Direction, layer, eventType(event))
	if event.SessionID != "" {
		fmt.Fprintf(w, "  Session: %s\n", event.SessionID)
	}

	switch {
	case event.Frame != nil:
		formatFrame(w, event.Frame)
	case event.Envelope != nil:
		formatEnvelope(w, event.Envelope)
	case event.StateChange != nil:
		formatStateChange(w, event.StateChange)
	case event.Control != nil:
		if event.Control.Latency > 0 {
			fmt.Fprintf(w, "  Latency: %s\n", formatDuration(event.Control.Latency))
		}
	case event.Error != nil:
		formatError(w, event.Error)
	}

	fmt.Fprintln(w)
}

func formatFrame(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprint(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatEnvelope(w io.Writer, env *log.EnvelopeEvent) {
	if env.ID != "" {
		fmt.Fprintf(w, "  ID: %s\n", env.ID)
	}
	if env.From != "" || env.To != "" {
		fmt.Fprintf(w, "  %s -> %s\n", orDash(env.From), orDash(env.To))
	}

	switch env.Kind {
	case envelope.KindMessage:
		fmt.Fprintf(w, "  Type: %s\n", env.MediaType)
	case envelope.KindCommand:
		fmt.Fprintf(w, "  %s %s [%s]\n", env.Method, env.URI, env.Status)
	case envelope.KindNotification:
		fmt.Fprintf(w, "  Event: %s\n", env.Event)
	case envelope.KindSession:
		fmt.Fprintf(w, "  State: %s\n", env.State)
	}

	if env.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", env.Reason)
	}
}

func formatStateChange(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatError(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
	if err.Attempt > 0 {
		fmt.Fprintf(w, "  Attempt: %d\n", err.Attempt)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}
