// Package commands implements the hub-log CLI commands.
package commands

import (
	"fmt"
	"strings"

	"github.com/msghub/hubclient-go/pkg/log"
)

// ParseLayerFlag parses a layer name (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "envelope":
		return log.LayerEnvelope, nil
	case "channel":
		return log.LayerChannel, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, envelope, or channel)", s)
	}
}

// ParseDirectionFlag parses a direction name (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "envelope":
		return log.CategoryEnvelope, nil
	case "control":
		return log.CategoryControl, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be envelope, control, state, or error)", s)
	}
}

// shortID returns the first 8 characters of a UUID.
func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// eventType labels the payload an event carries.
func eventType(e log.Event) string {
	switch {
	case e.Frame != nil:
		return "Frame"
	case e.Envelope != nil:
		return e.Envelope.Kind.String()
	case e.StateChange != nil:
		return "State"
	case e.Control != nil:
		return e.Control.Type.String()
	case e.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}
