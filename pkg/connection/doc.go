// Package connection keeps a session-oriented connection alive.
//
// This package handles:
//   - Single-flight reconnection through a Guard
//   - Retry delays between attempts (fixed by default, exponential opt-in)
//   - A Watchdog that restores the connection in the background
//
// # Single Flight
//
// A Guard owns a capacity-1 semaphore. Every caller that finds the
// connection down contends for it; the winner runs the reconnect loop
// while the others wait. A waiter that acquires the semaphore re-checks
// the connection first, so one outage causes one reconnect episode no
// matter how many callers noticed it.
//
// # Retry Strategy
//
// The default policy waits a fixed 2 seconds between attempts and retries
// until the caller's context is done. Backoff is available for hubs that
// need exponential delays:
//
//  1. Initial delay: 1 second
//  2. Exponential increase: 2s, 4s, 8s, 16s, 32s
//  3. Maximum delay: 60 seconds
//  4. Reset to 1s on successful reconnection
//
// To prevent thundering herd when multiple clients reconnect, Backoff adds
// jitter:
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
package connection
