package connection

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultWatchdogInterval is how often the watchdog checks the connection.
const DefaultWatchdogInterval = 2 * time.Second

// Watchdog restores the connection in the background.
type Watchdog struct {
	guard    *Guard
	interval time.Duration
	logger   *slog.Logger
}

// NewWatchdog creates a watchdog polling every interval (default 2s).
func NewWatchdog(g *Guard, interval time.Duration, logger *slog.Logger) *Watchdog {
	if interval <= 0 {
		interval = DefaultWatchdogInterval
	}
	return &Watchdog{guard: g, interval: interval, logger: logger}
}

// Run checks the connection every interval and reconnects through the
// guard when it is down. It returns when ctx is done or the guard closes.
func (w *Watchdog) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if !w.guard.IsConnected() {
			if w.logger != nil {
				w.logger.Debug("watchdog: connection down, reconnecting")
			}
			err := w.guard.EnsureConnected(ctx)
			if errors.Is(err, ErrGuardClosed) || ctx.Err() != nil {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Warn("watchdog: reconnect failed", "error", err)
			}
		}

		if err := sleep(ctx, w.interval); err != nil {
			return
		}
	}
}
