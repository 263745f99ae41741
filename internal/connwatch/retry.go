package connwatch

import (
	"math"
	"math/rand"
	"time"
)

// Retryer decides how long to wait before the next reconnect attempt.
type Retryer interface {
	// NextDelay returns the delay before retry number attempt (0-based) and
	// whether another attempt should be made at all.
	NextDelay(attempt int) (time.Duration, bool)
}

// ExponentialBackoff grows the delay by Multiplier per attempt up to MaxDelay,
// with optional jitter, and stops after MaxRetries attempts.
type ExponentialBackoff struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// MaxRetries bounds the attempts per outage. Must be > 0.
	MaxRetries int

	// JitterFactor is the maximum jitter as a fraction of the delay (0.0 to 1.0).
	JitterFactor float64
}

// NewExponentialBackoff returns a retryer starting at one second, capped at
// 30 seconds, giving up after maxRetries attempts.
func NewExponentialBackoff(maxRetries int) *ExponentialBackoff {
	return &ExponentialBackoff{
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		MaxRetries:   maxRetries,
		JitterFactor: 0.3,
	}
}

// NextDelay implements Retryer.
func (b *ExponentialBackoff) NextDelay(attempt int) (time.Duration, bool) {
	if attempt >= b.MaxRetries {
		return 0, false
	}

	delay := float64(b.InitialDelay) * math.Pow(b.Multiplier, float64(attempt))
	if delay > float64(b.MaxDelay) {
		delay = float64(b.MaxDelay)
	}

	if b.JitterFactor > 0 {
		//nolint:gosec // jitter only, not security sensitive
		delay += delay * b.JitterFactor * (2*rand.Float64() - 1)
		if delay < 0 {
			delay = float64(b.InitialDelay)
		}
	}

	return time.Duration(delay), true
}
