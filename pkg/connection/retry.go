package connection

import (
	"context"
	"time"
)

// DefaultRetryDelay is the fixed delay between reconnect attempts.
const DefaultRetryDelay = 2 * time.Second

// RetryPolicy decides how long to wait between reconnect attempts.
// A guard calls it only while holding its semaphore.
type RetryPolicy interface {
	// Next returns the delay before the next attempt.
	Next() time.Duration

	// Reset is called after a successful connect.
	Reset()
}

// FixedDelay waits the same duration between every attempt.
type FixedDelay time.Duration

// Next returns the fixed delay.
func (d FixedDelay) Next() time.Duration { return time.Duration(d) }

// Reset does nothing.
func (FixedDelay) Reset() {}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var (
	_ RetryPolicy = FixedDelay(0)
	_ RetryPolicy = (*Backoff)(nil)
)
