package fetch

import (
	"strconv"
	"strings"
	"time"
)

// Backoff is the retry policy applied by the Client. Keeping it a plain value
// makes the wait math testable without real delays.
type Backoff struct {
	// MaxAttempts is the total attempt budget, rate-limited and failed
	// attempts alike.
	MaxAttempts int
	// RateLimitBase seeds the exponential wait used for 429/430 responses
	// without a Retry-After header.
	RateLimitBase time.Duration
	// FailureStep is the linear wait increment for generic failures.
	FailureStep time.Duration
}

// DefaultBackoff returns the production retry policy: five attempts,
// rate-limit waits of 5s, 10s, 20s, ... and failure waits of 3s, 6s, 9s, ...
func DefaultBackoff() Backoff {
	return Backoff{
		MaxAttempts:   5,
		RateLimitBase: 5 * time.Second,
		FailureStep:   3 * time.Second,
	}
}

// RateLimitDelay returns the wait after a rate-limited attempt (zero-based).
// A numeric Retry-After header wins over the exponential schedule.
func (b Backoff) RateLimitDelay(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return b.RateLimitBase * (1 << attempt)
}

// FailureDelay returns the wait after a generic failed attempt (zero-based).
func (b Backoff) FailureDelay(attempt int) time.Duration {
	return b.FailureStep * time.Duration(attempt+1)
}
