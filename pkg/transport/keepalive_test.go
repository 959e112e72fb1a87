package transport

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

var errNoPong = errors.New("no pong")

func TestKeepAliveConfig(t *testing.T) {
	config := DefaultKeepAliveConfig()

	if config.PingInterval != DefaultPingInterval {
		t.Errorf("PingInterval = %v, want %v", config.PingInterval, DefaultPingInterval)
	}
	if config.PongTimeout != DefaultPongTimeout {
		t.Errorf("PongTimeout = %v, want %v", config.PongTimeout, DefaultPongTimeout)
	}
	if config.MaxMissedPongs != DefaultMaxMissedPongs {
		t.Errorf("MaxMissedPongs = %d, want %d", config.MaxMissedPongs, DefaultMaxMissedPongs)
	}

	// 30s * 3 + 5s
	if delay := config.DetectionDelay(); delay != MaxDetectionDelay {
		t.Errorf("DetectionDelay = %v, want %v", delay, MaxDetectionDelay)
	}
	if d := CalculateDetectionDelay(time.Second, time.Second, 2); d != 3*time.Second {
		t.Errorf("CalculateDetectionDelay = %v, want 3s", d)
	}
}

func TestKeepAliveBasic(t *testing.T) {
	var pingCount atomic.Int32

	config := KeepAliveConfig{
		PingInterval:   20 * time.Millisecond,
		PongTimeout:    10 * time.Millisecond,
		MaxMissedPongs: 3,
	}

	ka := NewKeepAlive(config,
		func(ctx context.Context) error {
			pingCount.Add(1)
			return nil
		},
		func() {
			t.Error("timeout should not be called")
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ka.Start(ctx)
	time.Sleep(90 * time.Millisecond)
	ka.Stop()

	if pingCount.Load() < 2 {
		t.Errorf("expected at least 2 pings, got %d", pingCount.Load())
	}
	stats := ka.Stats()
	if stats.MissedPongs != 0 {
		t.Errorf("MissedPongs = %d, want 0", stats.MissedPongs)
	}
	if stats.LastPongTime.IsZero() {
		t.Error("LastPongTime should be set")
	}
}

func TestKeepAliveTimeout(t *testing.T) {
	timeout := make(chan struct{})

	config := KeepAliveConfig{
		PingInterval:   20 * time.Millisecond,
		PongTimeout:    10 * time.Millisecond,
		MaxMissedPongs: 2,
	}

	ka := NewKeepAlive(config,
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
		func() {
			close(timeout)
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ka.Start(ctx)

	select {
	case <-timeout:
	case <-time.After(time.Second):
		t.Fatal("expected timeout to be called")
	}
	if ka.IsRunning() {
		t.Error("keep-alive should stop after a timeout")
	}
	ka.Stop()
}

func TestKeepAlivePongResetsCounter(t *testing.T) {
	var calls atomic.Int32
	pong := make(chan time.Duration, 10)

	config := KeepAliveConfig{
		PingInterval:   20 * time.Millisecond,
		PongTimeout:    10 * time.Millisecond,
		MaxMissedPongs: 3,
	}

	// Miss the first ping, answer the rest.
	ka := NewKeepAlive(config,
		func(ctx context.Context) error {
			if calls.Add(1) == 1 {
				return errNoPong
			}
			return nil
		},
		func() {
			t.Error("timeout should not be called")
		},
	)
	ka.SetPongReceivedCallback(func(latency time.Duration) {
		pong <- latency
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ka.Start(ctx)
	defer ka.Stop()

	select {
	case <-pong:
	case <-time.After(time.Second):
		t.Fatal("pong callback should have been called")
	}

	if stats := ka.Stats(); stats.MissedPongs != 0 {
		t.Errorf("MissedPongs should be 0 after pong, got %d", stats.MissedPongs)
	}
}

func TestKeepAliveStats(t *testing.T) {
	config := KeepAliveConfig{
		PingInterval:   20 * time.Millisecond,
		PongTimeout:    10 * time.Millisecond,
		MaxMissedPongs: 5,
	}

	ka := NewKeepAlive(config,
		func(ctx context.Context) error { return errNoPong },
		func() {},
	)

	stats := ka.Stats()
	if stats.PingsSent != 0 {
		t.Errorf("initial PingsSent = %d, want 0", stats.PingsSent)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ka.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	ka.Stop()

	stats = ka.Stats()
	if stats.PingsSent == 0 {
		t.Error("PingsSent should be > 0 after ping")
	}
	if stats.LastPingTime.IsZero() {
		t.Error("LastPingTime should be set")
	}
	if stats.MissedPongs == 0 {
		t.Error("MissedPongs should count failed pings")
	}
}

func TestKeepAliveStartStop(t *testing.T) {
	ka := NewKeepAlive(DefaultKeepAliveConfig(),
		func(ctx context.Context) error { return nil },
		func() {},
	)

	// Stop before Start is a no-op.
	ka.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ka.Start(ctx)
	ka.Start(ctx)
	if !ka.IsRunning() {
		t.Error("should be running after Start")
	}

	ka.Stop()
	ka.Stop()
	if ka.IsRunning() {
		t.Error("should not be running after Stop")
	}
}

func TestEnqueueDropsOldest(t *testing.T) {
	ch := make(chan int, 2)

	if enqueue(ch, 1) || enqueue(ch, 2) {
		t.Fatal("no drop expected while the queue has room")
	}
	if !enqueue(ch, 3) {
		t.Error("expected a drop when the queue is full")
	}

	if got := <-ch; got != 2 {
		t.Errorf("first = %d, want 2", got)
	}
	if got := <-ch; got != 3 {
		t.Errorf("second = %d, want 3", got)
	}
}
