// Package retry wraps a fallible operation with a fixed retry budget and
// exponential backoff between attempts.
package retry

import (
	"context"
	"time"
)

// Options controls the retry budget. Retries of 0 means a single attempt;
// a non-positive Delay falls back to 1 second.
type Options struct {
	// Retries is the number of retries after the initial attempt, so a total
	// of Retries+1 attempts are made.
	Retries int
	// Delay is the base backoff; attempt i (0-indexed) waits Delay * 2^i
	// before the next attempt.
	Delay time.Duration
}

// DefaultOptions returns the standard download retry budget.
func DefaultOptions() Options {
	return Options{Retries: 3, Delay: time.Second}
}

// Do runs fn until it succeeds or the budget is exhausted. The final
// attempt's error is returned as-is, never wrapped, so callers can inspect
// the original cause. Cancelling the context aborts the backoff wait and
// returns ctx.Err().
func Do[T any](ctx context.Context, opts Options, fn func(context.Context) (T, error)) (T, error) {
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == opts.Retries {
			break
		}
		if err := wait(ctx, opts.Delay<<attempt); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
