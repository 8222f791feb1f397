package client

import (
	"context"
	"sync"
	"time"
)

// testRequest is the concrete request type our fake request builders
// produce: just enough for the fake transport to read back the
// SlidingWindowEntry under test (the real proto shape is out of scope
// per spec.md §1).
type testRequest struct {
	CallID uint64
	Entry  SlidingWindowEntry
}

type fakeReply struct {
	exc error
}

func (r fakeReply) Exception() error { return r.exc }

type transportResult struct {
	reply Reply
	err   error
}

// fakeTransport lets a test script exactly what each seq's next attempt
// receives, in order, without any real network I/O.
type fakeTransport struct {
	mu      sync.Mutex
	pending map[uint64]chan transportResult
	calls   []*testRequest
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{pending: make(map[uint64]chan transportResult)}
}

func (f *fakeTransport) chanFor(seq uint64) chan transportResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.pending[seq]
	if !ok {
		ch = make(chan transportResult, 16)
		f.pending[seq] = ch
	}
	return ch
}

func (f *fakeTransport) SendRequestAsync(ctx context.Context, request any) (Reply, error) {
	req := request.(*testRequest)
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	select {
	case res := <-f.chanFor(req.Entry.Seq):
		return res.reply, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeTransport) respond(seq uint64, reply Reply, err error) {
	f.chanFor(seq) <- transportResult{reply: reply, err: err}
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// immediateScheduler runs the retry task right away, on its own
// goroutine, ignoring the requested delay: tests assert on ordering and
// outcomes, not on real wall-clock sleeps.
type immediateScheduler struct{}

func (immediateScheduler) OnTimeout(_ time.Duration, task func(), _ func() string) {
	go task()
}

type alwaysRetryPolicy struct{}

func (alwaysRetryPolicy) ShouldRetry(int, any) bool        { return true }
func (alwaysRetryPolicy) SleepTime(int, any) time.Duration { return 0 }

type neverRetryPolicy struct{}

func (neverRetryPolicy) ShouldRetry(int, any) bool        { return false }
func (neverRetryPolicy) SleepTime(int, any) time.Duration { return 0 }

type fakeLeaderHooks struct {
	mu             sync.Mutex
	leaderExcCalls int
	notLeaderCalls int
	ioCalls        int
	lastSuggested  string
}

func (h *fakeLeaderHooks) HandleLeaderException(_ any, _ Reply, reset func()) {
	h.mu.Lock()
	h.leaderExcCalls++
	h.mu.Unlock()
	reset()
}

func (h *fakeLeaderHooks) HandleNotLeaderException(_ any, err error, reset func()) {
	h.mu.Lock()
	h.notLeaderCalls++
	if nl, ok := err.(*NotLeaderError); ok {
		h.lastSuggested = nl.SuggestedLeader
	}
	h.mu.Unlock()
	reset()
}

func (h *fakeLeaderHooks) HandleIOException(_ any, _ error, _ string, reset func()) {
	h.mu.Lock()
	h.ioCalls++
	h.mu.Unlock()
	reset()
}

// fixedCallIDSource is a CallIDSource stub letting a test assert exactly
// which call id Client.Send used, independent of the default generator.
type fixedCallIDSource struct {
	mu   sync.Mutex
	next uint64
}

func (s *fixedCallIDSource) NextCallID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}

func buildTestRequest(callID uint64, entry SlidingWindowEntry) any {
	return &testRequest{CallID: callID, Entry: entry}
}

// buildTestRequestEntry is the RequestBuilder-shaped (single SlidingWindowEntry
// argument) counterpart to buildTestRequest, for tests that construct a
// PendingRequest or SlidingWindow directly rather than going through
// Client.Send's two-argument build callback.
func buildTestRequestEntry(entry SlidingWindowEntry) any {
	return buildTestRequest(0, entry)
}
