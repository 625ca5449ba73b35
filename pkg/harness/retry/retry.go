// Package retry runs an operation repeatedly with exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/thesyncim/haloqa/pkg/harness/internal"
)

// Policy configures Do.
type Policy struct {
	Attempts  int           // Total attempts including the first (minimum 1)
	BaseDelay time.Duration // Delay after the first failure; doubles after each further failure

	// Sleeper waits between attempts. Nil uses a real timer.
	Sleeper internal.Sleeper

	// Permanent, if set, reports errors that must not be retried;
	// Do returns them immediately.
	Permanent func(err error) bool

	// OnRetry, if set, is called before each backoff sleep with the
	// zero-based attempt that just failed.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy returns three attempts starting at one second.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:  3,
		BaseDelay: time.Second,
	}
}

// Delay returns the backoff after the given zero-based failed attempt.
// Doubling stops before the duration would overflow.
func (p Policy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	if d <= 0 {
		return d
	}
	for i := 0; i < attempt; i++ {
		if d > math.MaxInt64>>1 {
			return time.Duration(math.MaxInt64)
		}
		d <<= 1
	}
	return d
}

// Do calls fn until it succeeds or the attempts are exhausted.
// It returns the last error when every attempt fails, or the context error
// if ctx ends while backing off.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	sleeper := p.Sleeper
	if sleeper == nil {
		sleeper = internal.RealSleeper{}
	}

	var lastErr error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if attempt == p.Attempts-1 || (p.Permanent != nil && p.Permanent(err)) {
			break
		}
		delay := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		if err := sleeper.Sleep(ctx, delay); err != nil {
			return zero, errors.Join(err, lastErr)
		}
	}
	return zero, lastErr
}

// Run is Do for operations without a result.
func Run(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
