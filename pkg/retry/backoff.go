package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy computes successive delays for a repeating condition
type BackoffStrategy interface {
	// NextDelay returns the delay for the given 1-based attempt
	NextDelay(attempt int) time.Duration
	// Reset returns the strategy to its initial state
	Reset()
}

// ExponentialBackoff implements exponential backoff with jitter
type ExponentialBackoff struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	// JitterFactor adds up to ±JitterFactor of the delay (0.0 to 1.0)
	JitterFactor float64
}

// DefaultExponentialBackoff returns a backoff with sensible defaults
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:    5 * time.Second,
		MaxDelay:     5 * time.Minute,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// NextDelay calculates the next delay with exponential backoff and jitter
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	multiplier := eb.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := float64(eb.BaseDelay) * math.Pow(multiplier, float64(attempt-1))
	if eb.MaxDelay > 0 && delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	if eb.JitterFactor > 0 {
		jitter := delay * eb.JitterFactor
		delay += (rand.Float64() * 2 * jitter) - jitter
	}

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// Reset is a no-op; attempts are tracked by the caller or by a Tracker
func (eb *ExponentialBackoff) Reset() {}

// ConstantBackoff implements constant delay backoff
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns a constant delay
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Reset resets the backoff (no-op for constant backoff)
func (cb *ConstantBackoff) Reset() {}

// Tracker counts consecutive occurrences of a condition and hands out the
// matching delay from a strategy
type Tracker struct {
	strategy BackoffStrategy
	attempts int
}

// NewTracker wraps strategy with an attempt counter
func NewTracker(strategy BackoffStrategy) *Tracker {
	return &Tracker{strategy: strategy}
}

// Next records one more occurrence and returns the delay to apply
func (t *Tracker) Next() time.Duration {
	t.attempts++
	return t.strategy.NextDelay(t.attempts)
}

// Attempts returns the number of consecutive occurrences so far
func (t *Tracker) Attempts() int {
	return t.attempts
}

// Reset clears the counter
func (t *Tracker) Reset() {
	t.attempts = 0
	t.strategy.Reset()
}

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
