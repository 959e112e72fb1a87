package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func writeEvents(t *testing.T, events ...Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.hlog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func readAll(t *testing.T, path string, filter Filter) []Event {
	t.Helper()
	r, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer r.Close()

	var out []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, e)
	}
}

func TestReaderFilter(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	path := writeEvents(t,
		Event{Timestamp: base, ChannelID: "a1b2c3d4-0001", Direction: DirectionIn, Layer: LayerEnvelope, Category: CategoryEnvelope},
		Event{Timestamp: base.Add(time.Second), ChannelID: "a1b2c3d4-0001", SessionID: "s1", Direction: DirectionOut, Layer: LayerChannel, Category: CategoryState},
		Event{Timestamp: base.Add(2 * time.Second), ChannelID: "b9c8d7e6-0002", Direction: DirectionIn, Layer: LayerTransport, Category: CategoryError},
	)

	in := DirectionIn
	state := CategoryState
	transport := LayerTransport
	start := base.Add(500 * time.Millisecond)
	end := base.Add(2 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"none", Filter{}, 3},
		{"channel", Filter{ChannelID: "a1b2c3d4-0001"}, 2},
		{"session", Filter{SessionID: "s1"}, 1},
		{"direction", Filter{Direction: &in}, 2},
		{"category", Filter{Category: &state}, 1},
		{"layer", Filter{Layer: &transport}, 1},
		{"time range", Filter{TimeStart: &start, TimeEnd: &end}, 1},
		{"no match", Filter{ChannelID: "zzz"}, 0},
		{"channel prefix", Filter{ChannelID: "b9c8d7e6"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, path, tt.filter)
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.hlog")); err == nil {
		t.Error("expected error for missing file")
	}
}
