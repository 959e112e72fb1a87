package transport

import (
	"context"
	"sync"
	"time"
)

// Keep-alive constants.
const (
	// DefaultPingInterval is the default interval between pings.
	DefaultPingInterval = 30 * time.Second

	// DefaultPongTimeout is the default timeout waiting for a pong response.
	DefaultPongTimeout = 5 * time.Second

	// DefaultMaxMissedPongs is the default number of missed pongs before disconnect.
	DefaultMaxMissedPongs = 3

	// MaxDetectionDelay is the maximum time to detect connection loss with
	// the defaults: PingInterval * MaxMissedPongs + PongTimeout.
	MaxDetectionDelay = 95 * time.Second
)

// KeepAliveConfig configures keep-alive behavior.
type KeepAliveConfig struct {
	// PingInterval is the interval between pings.
	PingInterval time.Duration

	// PongTimeout is the timeout waiting for a pong response.
	PongTimeout time.Duration

	// MaxMissedPongs is the number of missed pongs before disconnect.
	MaxMissedPongs int
}

// DefaultKeepAliveConfig returns the default keep-alive configuration.
func DefaultKeepAliveConfig() KeepAliveConfig {
	return KeepAliveConfig{
		PingInterval:   DefaultPingInterval,
		PongTimeout:    DefaultPongTimeout,
		MaxMissedPongs: DefaultMaxMissedPongs,
	}
}

// DetectionDelay calculates the maximum detection delay for this configuration.
func (c KeepAliveConfig) DetectionDelay() time.Duration {
	return c.PingInterval*time.Duration(c.MaxMissedPongs) + c.PongTimeout
}

// PingFunc sends a ping and blocks until the pong arrives or ctx is done.
type PingFunc func(ctx context.Context) error

// KeepAlive manages connection liveness monitoring.
type KeepAlive struct {
	config KeepAliveConfig

	ping      PingFunc
	onTimeout func()
	onPong    func(latency time.Duration)

	mu           sync.Mutex
	running      bool
	stopCh       chan struct{}
	doneCh       chan struct{}
	pings        uint32
	missedPongs  int
	lastPingTime time.Time
	lastPongTime time.Time
	lastLatency  time.Duration
}

// NewKeepAlive creates a keep-alive monitor. onTimeout runs once, from the
// monitoring goroutine, when MaxMissedPongs consecutive pings fail.
func NewKeepAlive(config KeepAliveConfig, ping PingFunc, onTimeout func()) *KeepAlive {
	if config.PingInterval == 0 {
		config.PingInterval = DefaultPingInterval
	}
	if config.PongTimeout == 0 {
		config.PongTimeout = DefaultPongTimeout
	}
	if config.MaxMissedPongs == 0 {
		config.MaxMissedPongs = DefaultMaxMissedPongs
	}

	return &KeepAlive{
		config:    config,
		ping:      ping,
		onTimeout: onTimeout,
	}
}

// SetPongReceivedCallback sets a callback for answered pings.
func (ka *KeepAlive) SetPongReceivedCallback(cb func(latency time.Duration)) {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	ka.onPong = cb
}

// Start begins the monitoring loop. It stops when ctx is done, Stop is
// called or the peer is declared dead.
func (ka *KeepAlive) Start(ctx context.Context) {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	if ka.running {
		return
	}
	ka.running = true
	ka.stopCh = make(chan struct{})
	ka.doneCh = make(chan struct{})

	go ka.loop(ctx, ka.stopCh, ka.doneCh)
}

// Stop stops the monitoring loop and waits for it to exit.
// It must not be called from the onTimeout callback.
func (ka *KeepAlive) Stop() {
	ka.mu.Lock()
	done := ka.doneCh
	if done == nil {
		ka.mu.Unlock()
		return
	}
	if ka.running {
		ka.running = false
		close(ka.stopCh)
	}
	ka.mu.Unlock()

	<-done
}

// IsRunning returns true if keep-alive monitoring is active.
func (ka *KeepAlive) IsRunning() bool {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	return ka.running
}

// Stats returns current keep-alive statistics.
func (ka *KeepAlive) Stats() KeepAliveStats {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	return KeepAliveStats{
		LastPingTime: ka.lastPingTime,
		LastPongTime: ka.lastPongTime,
		LastLatency:  ka.lastLatency,
		MissedPongs:  ka.missedPongs,
		PingsSent:    ka.pings,
	}
}

// KeepAliveStats contains keep-alive statistics.
type KeepAliveStats struct {
	LastPingTime time.Time
	LastPongTime time.Time
	LastLatency  time.Duration
	MissedPongs  int
	PingsSent    uint32
}

func (ka *KeepAlive) loop(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(ka.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dead := ka.pingOnce(ctx); dead {
				ka.mu.Lock()
				ka.running = false
				ka.mu.Unlock()
				if ka.onTimeout != nil {
					ka.onTimeout()
				}
				return
			}
		}
	}
}

// pingOnce sends one ping and reports whether the peer is considered dead.
func (ka *KeepAlive) pingOnce(ctx context.Context) bool {
	start := time.Now()
	ka.mu.Lock()
	ka.lastPingTime = start
	ka.pings++
	ka.mu.Unlock()

	pingCtx, cancel := context.WithTimeout(ctx, ka.config.PongTimeout)
	err := ka.ping(pingCtx)
	cancel()

	// Stopping is not a missed pong.
	if ctx.Err() != nil {
		return false
	}

	ka.mu.Lock()
	defer ka.mu.Unlock()

	if err != nil {
		ka.missedPongs++
		return ka.missedPongs >= ka.config.MaxMissedPongs
	}

	now := time.Now()
	ka.lastPongTime = now
	ka.lastLatency = now.Sub(start)
	ka.missedPongs = 0
	if ka.onPong != nil {
		go ka.onPong(ka.lastLatency)
	}
	return false
}

// CalculateDetectionDelay calculates the maximum detection delay for given parameters.
func CalculateDetectionDelay(pingInterval, pongTimeout time.Duration, maxMissedPongs int) time.Duration {
	return pingInterval*time.Duration(maxMissedPongs) + pongTimeout
}
