package client

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/adoroszlai/ratis-go/retrypolicy"
)

// retryForeverNoSleepPolicy is the distinguished policy spec.md §6.2
// names: used once a server tells us who the new leader is.
var retryForeverNoSleepPolicy RetryPolicy = retrypolicy.RetryForeverNoSleep

// orchestrator drives each PendingRequest through the state machine of
// spec.md §4.6: send → reply/failure → schedule-retry, interpreting
// leader-change signals along the way. It owns no threads of its own;
// every suspension point is either the transport call (one goroutine per
// attempt) or the injected Scheduler.
type orchestrator struct {
	transport   Transport
	retryPolicy RetryPolicy
	scheduler   Scheduler
	leaderHooks LeaderHooks
	log         *logger
	metrics     *metricsSink
}

func newOrchestrator(t Transport, rp RetryPolicy, sched Scheduler, hooks LeaderHooks, log *logger, m *metricsSink) *orchestrator {
	return &orchestrator{
		transport:   t,
		retryPolicy: rp,
		scheduler:   sched,
		leaderHooks: hooks,
		log:         log,
		metrics:     m,
	}
}

// sendFnFor closes over ctx so every attempt of the same logical call
// shares one context, rather than re-deriving it from the ambient scope
// on each retry.
func (o *orchestrator) sendFnFor(ctx context.Context) sendFn {
	return func(p *PendingRequest) { o.attempt(ctx, p) }
}

// attempt is one pass through the state machine (spec.md §4.6 steps 1-4):
// bail out if already resolved, stamp isFirst if applicable, build the
// request, submit to the transport, and asynchronously react to the
// result.
func (o *orchestrator) attempt(ctx context.Context, p *PendingRequest) {
	if p.Future.IsResolved() {
		return
	}
	if p.window.isFirst(p.Seq()) {
		p.setFirstRequest()
	}
	req := p.newRequestImpl()
	p.attemptCount.Add(1)

	go func() {
		start := time.Now()
		reply, err := o.transport.SendRequestAsync(ctx, req)
		o.metrics.observeSendLatency(start, p.window.key)
		o.handleResult(ctx, p, req, reply, err)
	}()
}

// handleResult implements spec.md §4.6 step 5.
func (o *orchestrator) handleResult(ctx context.Context, p *PendingRequest, req any, reply Reply, err error) {
	if p.Future.IsResolved() {
		// Late arrival for an already-completed/failed pending: the
		// orchestrator's "already-done" guard (spec.md §5 Cancellation).
		return
	}

	if err == nil {
		o.handleReply(ctx, p, req, reply)
		return
	}
	o.handleTransportFailure(ctx, p, req, err)
}

func (o *orchestrator) handleReply(ctx context.Context, p *PendingRequest, req any, reply Reply) {
	if reply == nil {
		// "No reply yet, retry" (spec.md §6.1, law L3): retry without
		// treating it as an error.
		o.scheduleRetry(ctx, p, req, o.retryPolicy)
		return
	}

	if cause := reply.Exception(); cause != nil {
		var notLeader *NotLeaderError
		if errors.As(cause, &notLeader) {
			w := p.window
			o.leaderHooks.HandleLeaderException(req, reply, w.resetFirstSeqNum)
			o.scheduleRetry(ctx, p, req, o.policyForLeaderHint(notLeader.SuggestedLeader))
			return
		}
		// Any other embedded exception is not ours to interpret here;
		// deliver it in order and let the completion pipeline (C7)
		// translate it for the caller.
	}

	p.window.receiveReply(p.Seq(), reply, o.sendFnFor(ctx))
}

func (o *orchestrator) handleTransportFailure(ctx context.Context, p *PendingRequest, req any, err error) {
	var notLeader *NotLeaderError
	var groupMismatch *GroupMismatchError
	var ioErr *IOError

	switch {
	case errors.As(err, &notLeader):
		w := p.window
		o.leaderHooks.HandleNotLeaderException(req, err, w.resetFirstSeqNum)
		policy := o.policyForLeaderHint(notLeader.SuggestedLeader)
		if !policy.ShouldRetry(p.AttemptCount(), req) {
			o.failWindow(p, errors.Wrap(ErrRetryExhausted, err.Error()))
			return
		}
		o.scheduleRetry(ctx, p, req, policy)

	case errors.As(err, &groupMismatch):
		// Terminal: spec.md §7 GroupMismatch.
		o.failWindow(p, err)

	case errors.As(err, &ioErr):
		if !o.retryPolicy.ShouldRetry(p.AttemptCount(), req) {
			o.failWindow(p, errors.Wrap(ErrRetryExhausted, err.Error()))
			return
		}
		w := p.window
		o.leaderHooks.HandleIOException(req, err, ioErr.ServerID, w.resetFirstSeqNum)
		o.scheduleRetry(ctx, p, req, o.retryPolicy)

	default:
		// Non-I/O failure: terminal (spec.md §4.6 step 5).
		o.failWindow(p, err)
	}
}

// policyForLeaderHint picks the forever-no-sleep policy when the server
// told us exactly who the new leader is, and the configured policy
// otherwise (spec.md §4.6 step 5, NotLeaderException branch).
func (o *orchestrator) policyForLeaderHint(suggestedLeader string) RetryPolicy {
	if suggestedLeader != "" {
		return retryForeverNoSleepPolicy
	}
	return o.retryPolicy
}

func (o *orchestrator) scheduleRetry(ctx context.Context, p *PendingRequest, req any, policy RetryPolicy) {
	sleep := policy.SleepTime(p.AttemptCount(), req)
	o.metrics.incrRetry(p.window.key)
	seq, attempt := p.Seq(), p.AttemptCount()
	o.scheduler.OnTimeout(sleep, func() {
		p.window.retry(p, o.sendFnFor(ctx))
	}, func() string {
		return fmt.Sprintf("window=%s seq=%d attempt=%d", p.window.key, seq, attempt)
	})
}

func (o *orchestrator) failWindow(p *PendingRequest, err error) {
	o.metrics.incrTerminalFailure(p.window.key)
	o.log.Warnf("terminal failure on window %s at seq %d: %v", p.window.key, p.Seq(), err)
	p.window.fail(p.Seq(), err)
}
