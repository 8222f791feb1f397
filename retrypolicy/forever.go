package retrypolicy

import "time"

// ForeverNoSleep is the distinguished policy spec.md §4.6 requires when a
// NotLeaderException carries a suggested leader: retry immediately,
// indefinitely, since the server just told us exactly who to talk to
// next.
type ForeverNoSleep struct{}

// ShouldRetry always returns true.
func (ForeverNoSleep) ShouldRetry(int, any) bool { return true }

// SleepTime always returns zero.
func (ForeverNoSleep) SleepTime(int, any) time.Duration { return 0 }

// RetryForeverNoSleep is the shared instance, matching the contract name
// in spec.md §6.2 (retryForeverNoSleep()).
var RetryForeverNoSleep = ForeverNoSleep{}
