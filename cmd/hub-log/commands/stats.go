package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/msghub/hubclient-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Channels          map[string]*ChannelStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ChannelStats holds statistics for a single channel.
type ChannelStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	Endpoint   string
	Sessions   map[string]struct{}
	Reconnects int
	Failures   int
}

// Collect reads the whole file into a Stats.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Channels:          make(map[string]*ChannelStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	ch, ok := s.Channels[event.ChannelID]
	if !ok {
		ch = &ChannelStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
			Sessions:  make(map[string]struct{}),
		}
		s.Channels[event.ChannelID] = ch
	}
	ch.Events++
	if event.Timestamp.After(ch.LastSeen) {
		ch.LastSeen = event.Timestamp
	}
	if event.Endpoint != "" && ch.Endpoint == "" {
		ch.Endpoint = event.Endpoint
	}
	if event.SessionID != "" {
		ch.Sessions[event.SessionID] = struct{}{}
	}

	if sc := event.StateChange; sc != nil && sc.Entity == log.StateEntityChannel && sc.NewState == "RECONNECTING" {
		ch.Reconnects++
	}
	if event.Error != nil {
		s.Errors++
		if event.Error.Attempt > 0 {
			ch.Failures++
		}
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Hub Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerEnvelope, log.LayerChannel} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryEnvelope, log.CategoryControl, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Channels: %d\n", len(stats.Channels))
	if len(stats.Channels) > 0 {
		type channelInfo struct {
			id    string
			stats *ChannelStats
		}
		channels := make([]channelInfo, 0, len(stats.Channels))
		for id, cs := range stats.Channels {
			channels = append(channels, channelInfo{id, cs})
		}
		sort.Slice(channels, func(i, j int) bool {
			return channels[i].stats.FirstSeen.Before(channels[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, c := range channels {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortID(c.id), c.stats.Events, duration)
			if c.stats.Endpoint != "" {
				fmt.Fprintf(w, "           Endpoint: %s\n", c.stats.Endpoint)
			}
			if n := len(c.stats.Sessions); n > 0 {
				fmt.Fprintf(w, "           Sessions: %d\n", n)
			}
			if c.stats.Reconnects > 0 || c.stats.Failures > 0 {
				fmt.Fprintf(w, "           Reconnects: %d, failed attempts: %d\n", c.stats.Reconnects, c.stats.Failures)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
