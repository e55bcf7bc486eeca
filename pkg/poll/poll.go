// Package poll provides bounded fixed-interval polling for conditions that
// are expected to become true eventually, such as an instance getting a
// public address or a service answering health checks.
package poll

import (
	"context"
	"errors"
	"time"

	"github.com/SkiffProject/skiff/pkg/clock"
)

// ErrDeadlineExceeded is returned (joined with the last attempt error) when
// the deadline passes before an attempt succeeds.
var ErrDeadlineExceeded = errors.New("poll deadline exceeded")

// Config configures a polling loop.
type Config struct {
	// Interval is the pause between attempts. Defaults to 1 second.
	Interval time.Duration

	// Deadline is the absolute time after which no further attempts are made.
	// The zero value means poll until the context is cancelled.
	Deadline time.Time

	// Clock is the clock used for interval waits and deadline checks.
	// If nil, uses real time.
	Clock clock.Clock
}

// Do calls fn until it returns nil, treating every non-nil error as
// "not ready yet". The first attempt happens immediately; later attempts
// run at the configured interval. On deadline expiry the last attempt
// error is joined with ErrDeadlineExceeded so callers keep the diagnostic
// detail of why the condition never held.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}

	var lastErr error
	for {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return errors.Join(ctx.Err(), lastErr)
			}
			return ctx.Err()
		default:
		}

		if expired(clk, cfg.Deadline) {
			return errors.Join(ErrDeadlineExceeded, lastErr)
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		// Never sleep past the deadline; wake exactly at it so the
		// expiry check above runs without an extra attempt.
		wait := cfg.Interval
		if !cfg.Deadline.IsZero() {
			remaining := cfg.Deadline.Sub(clk.Now())
			if remaining <= 0 {
				return errors.Join(ErrDeadlineExceeded, lastErr)
			}
			if remaining < wait {
				wait = remaining
			}
		}

		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), lastErr)
		case <-clk.After(wait):
		}
	}
}

func expired(clk clock.Clock, deadline time.Time) bool {
	return !deadline.IsZero() && !clk.Now().Before(deadline)
}
