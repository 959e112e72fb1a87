package log

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeEventKeepsNanoseconds(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	in := Event{
		Timestamp: ts,
		ChannelID: "chan-1",
		Layer:     LayerChannel,
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   StateEntityChannel,
			OldState: "CONNECTED",
			NewState: "RECONNECTING",
		},
	}

	data, err := EncodeEvent(in)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	out, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !out.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", out.Timestamp, ts)
	}
	if out.StateChange == nil || out.StateChange.NewState != "RECONNECTING" {
		t.Errorf("StateChange = %+v", out.StateChange)
	}
}

func TestEncodeEventIsDeterministic(t *testing.T) {
	ev := Event{Timestamp: time.Unix(0, 1).UTC(), ChannelID: "c", Endpoint: "wss://hub.test/hub"}
	a, err := EncodeEvent(ev)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := EncodeEvent(ev)
	if !bytes.Equal(a, b) {
		t.Error("encoding differs between calls")
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00}); err == nil {
		t.Error("expected an error for invalid CBOR")
	}
}
