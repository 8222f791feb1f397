// Package retrypolicy implements the RetryPolicy collaborator contract of
// spec.md §6.2: ShouldRetry(attemptCount, request) and
// SleepTime(attemptCount, request).
package retrypolicy

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Exponential is the default retry policy: bounded attempts, exponential
// backoff, built on cenkalti/backoff/v4's BackOff rather than a hand-rolled
// doubling loop.
type Exponential struct {
	maxAttempts int
}

// NewExponential builds an Exponential policy that gives up after
// maxAttempts (0 means unlimited) and otherwise sleeps according to
// cenkalti/backoff's default exponential curve.
func NewExponential(maxAttempts int) *Exponential {
	return &Exponential{maxAttempts: maxAttempts}
}

// ShouldRetry reports whether another attempt is permitted.
func (p *Exponential) ShouldRetry(attemptCount int, _ any) bool {
	return p.maxAttempts <= 0 || attemptCount < p.maxAttempts
}

// SleepTime returns how long to wait before attemptCount's retry. The
// underlying cenkalti/backoff curve is driven purely by how many times
// NextBackOff has been called, so attemptCount selects which step to
// replay; RandomizationFactor is zeroed so the same attemptCount always
// yields the same duration, rather than a jittered one that would vary
// call to call.
func (p *Exponential) SleepTime(attemptCount int, _ any) time.Duration {
	eb := backoff.NewExponentialBackOff()
	eb.MaxElapsedTime = 0
	eb.RandomizationFactor = 0
	var d time.Duration
	for i := 0; i <= attemptCount; i++ {
		d = eb.NextBackOff()
	}
	if d == backoff.Stop {
		return eb.MaxInterval
	}
	return d
}
