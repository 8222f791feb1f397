package client

import (
	"fmt"
	"sync"
)

// sendFn is invoked by a window to (re)dispatch a pending request. It is
// always called outside the window's lock (spec.md §9 "Window mutation
// locality": never await inside the critical section).
type sendFn func(p *PendingRequest)

// SlidingWindow tracks the outstanding requests addressed at one target
// key (spec.md §3 SlidingWindow, C3). All windows are independent of each
// other; there is no cross-window ordering (spec.md §5).
type SlidingWindow struct {
	key string

	seqGen seqGenerator

	mu              sync.Mutex
	outstanding     map[uint64]*PendingRequest
	arrived         map[uint64]Reply
	firstSeq        uint64
	firstSeqKnown   bool
	nextDeliverySeq uint64
}

func newSlidingWindow(key string) *SlidingWindow {
	return &SlidingWindow{
		key:         key,
		outstanding: make(map[uint64]*PendingRequest),
		arrived:     make(map[uint64]Reply),
	}
}

// submitNewRequest atomically assigns the next seq, builds a
// PendingRequest via constructor(seq), registers it, flags it if it is
// now the window's first, and hands it to sendFn (spec.md §4.3).
func (w *SlidingWindow) submitNewRequest(constructor func(seq uint64) *PendingRequest, send sendFn) *PendingRequest {
	w.mu.Lock()
	seq := w.seqGen.nextSeq()
	pending := constructor(seq)

	wasEmpty := len(w.outstanding) == 0
	w.outstanding[seq] = pending
	if wasEmpty {
		w.firstSeq = seq
		w.firstSeqKnown = true
		w.nextDeliverySeq = seq
		pending.setFirstRequest()
	}
	w.mu.Unlock()

	send(pending)
	return pending
}

// retry re-invokes send for pending without reassigning its seq (law L2).
// If pending is currently the window's first, its isFirst flag is
// (re)stamped so the next build still carries isFirst=true.
func (w *SlidingWindow) retry(pending *PendingRequest, send sendFn) {
	if w.isFirst(pending.Seq()) {
		pending.setFirstRequest()
	}
	send(pending)
}

// isFirst reports whether seq is the window's current anchor (spec.md
// §4.3, used by the retry orchestrator before building the proto).
func (w *SlidingWindow) isFirst(seq uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.firstSeqKnown && w.firstSeq == seq
}

// receiveReply records the reply for seq and surfaces any now-contiguous
// run of replies starting at nextDeliverySeq to their callers, in order
// (I3). If the window's first shifts as a result, the new first is
// re-flagged and re-sent so the server sees a fresh anchor.
func (w *SlidingWindow) receiveReply(seq uint64, reply Reply, send sendFn) {
	w.mu.Lock()
	if _, ok := w.outstanding[seq]; !ok {
		// Late or already-resolved reply (orchestrator's "already-done"
		// guard already covers this at a higher level); drop.
		w.mu.Unlock()
		return
	}
	w.arrived[seq] = reply

	oldFirstSeq := w.firstSeq
	var toDeliver []deliverable
	for {
		p, ok := w.outstanding[w.nextDeliverySeq]
		if !ok {
			break
		}
		r, ok := w.arrived[w.nextDeliverySeq]
		if !ok {
			break
		}
		delete(w.outstanding, w.nextDeliverySeq)
		delete(w.arrived, w.nextDeliverySeq)
		toDeliver = append(toDeliver, deliverable{pending: p, reply: r})
		w.nextDeliverySeq++
	}

	var newFirst *PendingRequest
	if len(w.outstanding) > 0 {
		w.firstSeq = w.nextDeliverySeq
		newFirst = w.outstanding[w.firstSeq]
	} else {
		w.firstSeqKnown = false
	}
	firstShifted := newFirst != nil && oldFirstSeq != w.firstSeq
	w.mu.Unlock()

	for _, d := range toDeliver {
		d.pending.setReply(d.reply)
	}

	if firstShifted {
		newFirst.setFirstRequest()
		send(newFirst)
	}
}

type deliverable struct {
	pending *PendingRequest
	reply   Reply
}

// fail marks seq as terminally failed with err and, per the per-window
// fate-sharing policy (spec.md §7), fails every other outstanding request
// in the window with an error wrapping both ErrWindowReset and err. The
// window is left empty (effectively reset); the next submitNewRequest
// re-anchors it.
func (w *SlidingWindow) fail(seq uint64, err error) {
	w.mu.Lock()
	if _, ok := w.outstanding[seq]; !ok {
		w.mu.Unlock()
		return
	}
	victims := make([]*PendingRequest, 0, len(w.outstanding))
	for _, p := range w.outstanding {
		victims = append(victims, p)
	}
	w.outstanding = make(map[uint64]*PendingRequest)
	w.arrived = make(map[uint64]Reply)
	w.firstSeqKnown = false
	w.mu.Unlock()

	for _, p := range victims {
		if p.Seq() == seq {
			p.fail(err)
			continue
		}
		p.fail(fmt.Errorf("%w: %w", ErrWindowReset, err))
	}
}

// resetFirstSeqNum re-anchors the window to whichever seq is currently
// the smallest outstanding one (spec.md §4.3; used after a leader
// change). Idempotent (law L1): calling it twice in a row has the same
// effect as calling it once.
func (w *SlidingWindow) resetFirstSeqNum() {
	w.mu.Lock()
	if !w.firstSeqKnown || len(w.outstanding) == 0 {
		w.mu.Unlock()
		return
	}
	p, ok := w.outstanding[w.firstSeq]
	w.mu.Unlock()
	if ok {
		p.setFirstRequest()
	}
}

// Len reports the number of outstanding requests in the window.
func (w *SlidingWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.outstanding)
}
