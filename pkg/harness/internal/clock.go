// Package internal provides internal utilities for the harness packages.
package internal

import (
	"context"
	"sync"
	"time"
)

// Sleeper blocks for a duration or until the context is done.
// This abstraction allows for deterministic testing of delay-driven code.
type Sleeper interface {
	// Sleep returns ctx.Err() if the context ends before d elapses.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper is a Sleeper backed by a timer.
type RealSleeper struct{}

// Sleep waits for d or for ctx to be done, whichever comes first.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// MockSleeper records requested durations without blocking.
// It is safe for concurrent use.
type MockSleeper struct {
	mu    sync.Mutex
	slept []time.Duration
}

// NewMockSleeper creates an empty MockSleeper.
func NewMockSleeper() *MockSleeper {
	return &MockSleeper{}
}

// Sleep records d and returns immediately, honoring an already-done context.
func (m *MockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.slept = append(m.slept, d)
	m.mu.Unlock()
	return nil
}

// Durations returns a copy of every duration passed to Sleep, in call order.
func (m *MockSleeper) Durations() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.slept))
	copy(out, m.slept)
	return out
}

// Total returns the sum of all recorded durations.
func (m *MockSleeper) Total() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total time.Duration
	for _, d := range m.slept {
		total += d
	}
	return total
}
