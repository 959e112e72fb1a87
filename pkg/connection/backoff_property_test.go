package connection

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBackoffBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("delays stay within base and jittered max", prop.ForAll(
		func(initialMs, maxMs int64, multiplier, jitter float64, steps int) bool {
			cfg := BackoffConfig{
				Initial:    time.Duration(initialMs) * time.Millisecond,
				Max:        time.Duration(maxMs) * time.Millisecond,
				Multiplier: multiplier,
				Jitter:     jitter,
			}
			b := NewBackoff(cfg)
			ceiling := cfg.Max
			if ceiling < cfg.Initial {
				ceiling = cfg.Initial
			}

			prev := time.Duration(0)
			for range steps {
				base := b.Current()
				if base < prev || base > ceiling {
					return false
				}
				d := b.Next()
				if d < base || d > base+time.Duration(float64(base)*jitter) {
					return false
				}
				prev = base
			}
			return b.Attempts() == steps
		},
		gen.Int64Range(1, 1000),
		gen.Int64Range(1, 60000),
		gen.Float64Range(1.1, 4),
		gen.Float64Range(0.01, 0.5),
		gen.IntRange(0, 30),
	))

	properties.Property("Reset returns to the initial delay", prop.ForAll(
		func(initialMs int64, steps int) bool {
			initial := time.Duration(initialMs) * time.Millisecond
			b := NewBackoff(BackoffConfig{Initial: initial, Max: time.Minute, Jitter: -1})
			for range steps {
				b.Next()
			}
			b.Reset()
			return b.Current() == initial && b.Attempts() == 0 && b.Next() == initial
		},
		gen.Int64Range(1, 1000),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
