package client

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/adoroszlai/ratis-go/tracing"
)

// RequestKind distinguishes the call shapes spec.md §1 lists: writes,
// linearizable reads, stale reads, and watches. Only stale reads affect
// window routing (spec.md §4.2); the rest share the RAFT window.
type RequestKind int

const (
	KindWrite RequestKind = iota
	KindLinearizableRead
	KindStaleRead
	KindWatch
)

// SlidingWindowEntry is the (seq, isFirst) tuple that must be preserved on
// the wire inside every client request proto (spec.md §3, §6 "Wire
// concern"). Building the rest of the request is out of scope here.
type SlidingWindowEntry struct {
	Seq     uint64
	IsFirst bool
}

// RequestBuilder is a pure function from a SlidingWindowEntry to a
// concrete, transport-ready request. Client.Send builds it from the
// caller's build callback (which closes over whatever request kind,
// message and target it needs) and the call id assigned at submission.
// The tracing span is not passed to it: the span is held on the
// PendingRequest, which ends it on resolution and records a terminal
// failure on it.
type RequestBuilder func(entry SlidingWindowEntry) any

// ReplyFuture is a single-assignment completion cell (spec.md §9,
// "Single-assignment future"): once resolved, further resolve attempts
// are no-ops, satisfying I6 without defensive checks at each call site.
type ReplyFuture struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	reply    Reply
	err      error
}

func newReplyFuture() *ReplyFuture {
	return &ReplyFuture{done: make(chan struct{})}
}

// tryComplete resolves the future with a reply. Returns false if it was
// already resolved.
func (f *ReplyFuture) tryComplete(reply Reply) bool {
	return f.resolve(reply, nil)
}

// tryFail resolves the future with an error. Returns false if it was
// already resolved.
func (f *ReplyFuture) tryFail(err error) bool {
	return f.resolve(nil, err)
}

func (f *ReplyFuture) resolve(reply Reply, err error) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.resolved = true
	f.reply, f.err = reply, err
	f.mu.Unlock()
	close(f.done)
	return true
}

// IsResolved reports whether the future has already been completed or
// failed.
func (f *ReplyFuture) IsResolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Done returns a channel closed when the future resolves.
func (f *ReplyFuture) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx is done.
func (f *ReplyFuture) Wait(ctx context.Context) (Reply, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.reply, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PendingRequest is one in-flight logical call (spec.md §3 PendingRequest,
// C4). seq is immutable after assignment; isFirst is single-writer and
// observed by the request builder on every rebuild.
type PendingRequest struct {
	seq uint64

	requestBuilder RequestBuilder
	Future         *ReplyFuture

	isFirst          atomic.Bool
	attemptCount     atomic.Int32
	lastBuiltRequest atomic.Pointer[any]

	span tracing.Span

	key    string // window key this pending belongs to, for logging
	window *SlidingWindow
}

func newPendingRequest(seq uint64, key string, builder RequestBuilder, span tracing.Span) *PendingRequest {
	if span == nil {
		span = tracing.Noop
	}
	return &PendingRequest{
		seq:            seq,
		key:            key,
		requestBuilder: builder,
		Future:         newReplyFuture(),
		span:           span,
	}
}

// Seq returns the pending's immutable sequence number (law L2: unchanged
// across retries).
func (p *PendingRequest) Seq() uint64 { return p.seq }

// IsFirst reports whether the pending currently anchors its window.
func (p *PendingRequest) IsFirst() bool { return p.isFirst.Load() }

// setFirstRequest idempotently flags the pending as the window's anchor.
func (p *PendingRequest) setFirstRequest() {
	p.isFirst.Store(true)
}

// AttemptCount returns the number of times this pending has been
// submitted to the transport. Never decremented (spec.md I5).
func (p *PendingRequest) AttemptCount() int {
	return int(p.attemptCount.Load())
}

// newRequestImpl rebuilds the concrete request using the current isFirst
// flag and seq, and records it as lastBuiltRequest. It does not touch
// attemptCount: that is incremented by the retry orchestrator at the
// point of transport submission (spec.md §4.4, §9 open question).
func (p *PendingRequest) newRequestImpl() any {
	entry := SlidingWindowEntry{Seq: p.seq, IsFirst: p.isFirst.Load()}
	req := p.requestBuilder(entry)
	p.lastBuiltRequest.Store(&req)
	return req
}

// LastBuiltRequest returns the most recently built request, for logging
// and retry bookkeeping.
func (p *PendingRequest) LastBuiltRequest() any {
	if r := p.lastBuiltRequest.Load(); r != nil {
		return *r
	}
	return nil
}

// setReply resolves the future with a successful reply. A second call is
// a no-op (I6).
func (p *PendingRequest) setReply(reply Reply) {
	if p.Future.tryComplete(reply) {
		p.span.End()
	}
}

// fail resolves the future with a terminal error. A second call is a
// no-op (I6).
func (p *PendingRequest) fail(err error) {
	if p.Future.tryFail(err) {
		p.span.RecordAttempt(p.AttemptCount(), err)
		p.span.End()
	}
}
