// Package client implements the ordered asynchronous Raft client core:
// the sliding-window sequencer of spec.md. It assigns monotonically
// increasing sequence numbers to outgoing requests, multiplexes them onto
// per-target sliding windows, marks exactly one "first" request per
// window, delivers replies to callers in submission order, and
// coordinates retries across leader changes and transient failures.
//
// Everything this package does NOT do — wire RPC, request proto
// construction, retry-policy internals, distributed tracing internals,
// leader lookup, group routing — is an external collaborator, injected
// through the interfaces in collaborators.go.
package client

import (
	"context"
	"sync/atomic"

	"github.com/adoroszlai/ratis-go/tracing"
)

// Client is the entry point: Send submits one logical call and returns
// its PendingRequest, from which the caller awaits a Reply.
type Client struct {
	callIDs      CallIDSource
	registry     *windowRegistry
	gate         *admissionGate
	orchestrator *orchestrator
	completion   *completionPipeline
	tracer       Tracer
	log          *logger
	metrics      *metricsSink

	closed atomic.Bool
}

// New builds a Client wired to the given external collaborators. rp,
// hooks and transport are required; sched may be nil, in which case a
// scheduler on Options.Clock is used; tracer may be nil, in which case
// spans are never captured.
func New(transport Transport, rp RetryPolicy, sched Scheduler, hooks LeaderHooks, tracer Tracer, opts ...Option) *Client {
	o := resolveOptions(opts...)

	log := nopLogger()
	if o.Logger != nil {
		log = newLogger(o.Logger)
	}
	m := newMetricsSink(o.MetricsPrefix...)

	if sched == nil {
		sched = newClockScheduler(o.Clock, log)
	}

	callIDs := o.CallIDs
	if callIDs == nil {
		callIDs = &callIDGenerator{}
	}

	gate := newAdmissionGate(o.MaxOutstandingRequests)
	return &Client{
		callIDs:      callIDs,
		registry:     newWindowRegistry(),
		gate:         gate,
		orchestrator: newOrchestrator(transport, rp, sched, hooks, log, m),
		completion:   newCompletionPipeline(gate, m),
		tracer:       tracer,
		log:          log,
		metrics:      m,
	}
}

// Send admits, sequences, and dispatches one logical call (spec.md §2
// "Data flow"). It blocks on the admission gate, then returns
// immediately with a PendingRequest; the caller awaits the reply through
// Client.Await.
//
// kind and target decide which sliding window the request lands on
// (spec.md §4.2): KindStaleRead routes to a window keyed by target, every
// other kind shares the "RAFT" window.
func (c *Client) Send(ctx context.Context, kind RequestKind, target string, build func(callID uint64, entry SlidingWindowEntry) any) (*PendingRequest, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if err := c.gate.Acquire(ctx); err != nil {
		return nil, err
	}

	callID := c.callIDs.NextCallID()
	key := windowKey(kind, target)
	window := c.registry.windowFor(key)

	var span tracing.Span = tracing.Noop
	if c.tracer != nil {
		span = c.tracer.ActiveSpan(ctx)
	}

	builder := func(entry SlidingWindowEntry) any { return build(callID, entry) }

	pending := window.submitNewRequest(func(seq uint64) *PendingRequest {
		p := newPendingRequest(seq, key, builder, span)
		p.window = window
		return p
	}, c.orchestrator.sendFnFor(ctx))

	c.completion.Register(pending)
	return pending, nil
}

// Await blocks until pending resolves, applying the embedded-exception
// translation of spec.md §4.7.
func (c *Client) Await(ctx context.Context, pending *PendingRequest) (Reply, error) {
	return c.completion.Await(ctx, pending)
}

// WindowLen reports how many requests are outstanding on the window
// addressed by kind/target, mostly useful for tests and diagnostics.
func (c *Client) WindowLen(kind RequestKind, target string) int {
	return c.registry.windowFor(windowKey(kind, target)).Len()
}

// Close stops the client from admitting further requests: every Send call
// after Close returns ErrClientClosed. It does not cancel or wait on
// requests already in flight; callers still Await those the usual way.
// Close is idempotent.
func (c *Client) Close() {
	c.closed.Store(true)
}
