// Package jitter injects randomized, human-plausible pauses into browser
// interactions. The delay policy sits behind Provider so tests can swap in
// None and run without waiting.
package jitter

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/thesyncim/haloqa/pkg/harness/internal"
)

// Range is an inclusive interval of delays.
type Range struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// Fixed returns a Range that always yields d.
func Fixed(d time.Duration) Range {
	return Range{Min: d, Max: d}
}

// Validate reports an error for negative bounds or Min > Max.
func (r Range) Validate() error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("jitter range %s must not be negative", r)
	}
	if r.Min > r.Max {
		return fmt.Errorf("jitter range %s has min greater than max", r)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Min, r.Max)
}

// Provider pauses for a duration drawn from a Range.
type Provider interface {
	// Pause blocks for a delay within r, or until ctx is done.
	Pause(ctx context.Context, r Range) error
}

// None never waits. Use it to make interaction sequences deterministic.
type None struct{}

// Pause returns immediately.
func (None) Pause(ctx context.Context, _ Range) error {
	return ctx.Err()
}

// Random draws uniformly distributed delays.
// It is safe for concurrent use.
type Random struct {
	mu      sync.Mutex
	rng     *rand.Rand
	sleeper internal.Sleeper
}

// NewRandom creates a Random provider. A zero seed seeds from the clock.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{
		rng:     rand.New(rand.NewSource(seed)),
		sleeper: internal.RealSleeper{},
	}
}

// WithSleeper replaces the sleeper used by Pause and returns r.
func (r *Random) WithSleeper(s internal.Sleeper) *Random {
	r.sleeper = s
	return r
}

// Draw returns a delay within rg without sleeping.
// Invalid ranges are clamped: negative bounds become zero and Max is raised to Min.
func (r *Random) Draw(rg Range) time.Duration {
	lo, hi := rg.Min, rg.Max
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	if hi == lo {
		return lo
	}
	r.mu.Lock()
	n := r.rng.Int63n(int64(hi-lo) + 1)
	r.mu.Unlock()
	return lo + time.Duration(n)
}

// Pause sleeps for a delay drawn from rg.
func (r *Random) Pause(ctx context.Context, rg Range) error {
	return r.sleeper.Sleep(ctx, r.Draw(rg))
}
