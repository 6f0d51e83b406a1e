// Package resilience holds the retry policy applied to provider calls and
// the transient-error classification it relies on.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy decides how often a provider call is attempted. The zero value and
// Once both attempt a call exactly once.
type Policy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// Backoff is the wait before the first retry; it grows by Multiplier up
	// to MaxBackoff.
	Backoff    time.Duration
	MaxBackoff time.Duration
	Multiplier float64
	// Jitter spreads each wait by ±Jitter of its length.
	Jitter float64

	// Retryable reports whether an error deserves another attempt.
	// Nil means IsTransient.
	Retryable func(err error) bool
	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error)
}

// Once is the policy every adapter starts with: a failed call is not
// repeated.
func Once() Policy {
	return Policy{
		Attempts:   1,
		Backoff:    500 * time.Millisecond,
		MaxBackoff: 30 * time.Second,
		Multiplier: 2,
		Jitter:     0.25,
	}
}

// DoVal calls fn until it succeeds, returns a non-retryable error, runs out
// of attempts, or ctx ends. The last error is returned on failure.
func DoVal[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	val, err := fn(ctx)
	if err == nil || p.Attempts <= 1 {
		return val, err
	}

	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	for attempt := 1; attempt < p.Attempts; attempt++ {
		if ctx.Err() != nil || !retryable(err) {
			return zero, err
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		t := time.NewTimer(p.wait(attempt - 1))
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, err
		case <-t.C:
		}

		if val, err = fn(ctx); err == nil {
			return val, nil
		}
	}
	return zero, err
}

// wait returns the jittered backoff before retry n (zero-based).
func (p Policy) wait(n int) time.Duration {
	base, ceiling, mult := p.Backoff, p.MaxBackoff, p.Multiplier
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	if ceiling <= 0 {
		ceiling = 30 * time.Second
	}
	if mult <= 0 {
		mult = 2
	}

	d := math.Min(float64(base)*math.Pow(mult, float64(n)), float64(ceiling))
	if p.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * p.Jitter
	}
	return time.Duration(math.Max(d, 0))
}

// Logger returns an OnRetry hook that logs the provider call being retried.
func Logger(provider, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying provider call",
			zap.String("provider", provider),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
