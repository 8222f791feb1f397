package client

import (
	"context"
	"time"

	"github.com/adoroszlai/ratis-go/tracing"
)

// Reply is a server response as seen by the core. A reply that is nil with
// a nil error is the transport's "no reply yet, retry" signal (spec.md
// §6.1). A non-nil reply may still carry an embedded Raft-level exception,
// surfaced through Exception.
type Reply interface {
	// Exception returns the embedded Raft-level exception carried by an
	// otherwise normal reply, or nil if the reply is clean.
	Exception() error
}

// Transport sends a built request to the addressed server. It is an
// external collaborator: this core neither builds requests nor owns a
// wire format, it only reacts to what Transport returns.
type Transport interface {
	SendRequestAsync(ctx context.Context, request any) (Reply, error)
}

// RetryPolicy decides whether and how long to wait before another attempt.
type RetryPolicy interface {
	ShouldRetry(attemptCount int, request any) bool
	SleepTime(attemptCount int, request any) time.Duration
}

// Scheduler arms a callback to run after a delay, without borrowing the
// orchestrator's own goroutine.
type Scheduler interface {
	OnTimeout(d time.Duration, task func(), descriptionFn func() string)
}

// LeaderHooks lets the surrounding client react to leader-related signals
// before the orchestrator schedules its retry. Each hook may call
// resetCallback, which maps onto SlidingWindow.resetFirstSeqNum.
type LeaderHooks interface {
	HandleLeaderException(request any, reply Reply, resetCallback func())
	HandleNotLeaderException(request any, err error, resetCallback func())
	HandleIOException(request any, err error, serverID string, resetCallback func())
}

// CallIDSource issues process-wide unique call ids, independent of
// per-window sequence numbers. Client defaults to its own callIDGenerator;
// WithCallIDSource overrides it, e.g. to share one source across Clients.
type CallIDSource interface {
	NextCallID() uint64
}

// Tracer exposes the currently active span so it can be captured once at
// submission time and threaded through every retry of the same pending
// request (see the tracing package doc comment for why it must not be
// re-read from ambient context on retry).
type Tracer interface {
	ActiveSpan(ctx context.Context) tracing.Span
}
