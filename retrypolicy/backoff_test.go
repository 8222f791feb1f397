package retrypolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExponential_ShouldRetryRespectsMaxAttempts(t *testing.T) {
	p := NewExponential(3)

	assert.True(t, p.ShouldRetry(0, nil))
	assert.True(t, p.ShouldRetry(2, nil))
	assert.False(t, p.ShouldRetry(3, nil))
}

func TestExponential_UnlimitedWhenMaxAttemptsIsZero(t *testing.T) {
	p := NewExponential(0)
	assert.True(t, p.ShouldRetry(1000, nil))
}

func TestExponential_SleepTimeGrowsWithAttempt(t *testing.T) {
	p := NewExponential(0)
	first := p.SleepTime(0, nil)
	later := p.SleepTime(5, nil)
	assert.Greater(t, later, first)
}

func TestForeverNoSleep_AlwaysRetriesWithNoDelay(t *testing.T) {
	assert.True(t, RetryForeverNoSleep.ShouldRetry(1000, nil))
	assert.Equal(t, int64(0), int64(RetryForeverNoSleep.SleepTime(1000, nil)))
}
