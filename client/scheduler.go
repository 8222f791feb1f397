package client

import (
	"time"

	"code.cloudfoundry.org/clock"
)

// clockScheduler implements the Scheduler collaborator (spec.md §6.3) on
// top of code.cloudfoundry.org/clock, the same time abstraction
// chain.go's Options.Clock / node.clock fields use. Building on an
// injectable clock rather than the stdlib time package directly is what
// lets retry-sleep be exercised with a fake clock in tests instead of
// real sleeps.
type clockScheduler struct {
	clock clock.Clock
	log   *logger
}

func newClockScheduler(c clock.Clock, log *logger) *clockScheduler {
	if c == nil {
		c = clock.NewClock()
	}
	return &clockScheduler{clock: c, log: log}
}

// OnTimeout arms task to run after d, the same "stopped timer, drained on
// fire" shape chain.go's serveRequest uses for its batch timer.
func (s *clockScheduler) OnTimeout(d time.Duration, task func(), descriptionFn func() string) {
	timer := s.clock.NewTimer(d)
	go func() {
		<-timer.C()
		if s.log != nil && descriptionFn != nil {
			s.log.Debugf("retry timer fired: %s", descriptionFn())
		}
		task()
	}()
}
