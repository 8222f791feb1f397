package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRequest_NewRequestImplStampsCurrentEntryNotAttemptCount(t *testing.T) {
	p := newPendingRequest(7, "RAFT", buildTestRequestEntry, nil)

	req1 := p.newRequestImpl().(*testRequest)
	assert.Equal(t, uint64(7), req1.Entry.Seq)
	assert.False(t, req1.Entry.IsFirst)
	assert.Equal(t, 0, p.AttemptCount(), "newRequestImpl must not itself bump attemptCount")

	p.setFirstRequest()
	req2 := p.newRequestImpl().(*testRequest)
	assert.True(t, req2.Entry.IsFirst)
	assert.Same(t, req2, p.LastBuiltRequest())
}

func TestReplyFuture_SingleAssignment(t *testing.T) {
	f := newReplyFuture()

	assert.True(t, f.tryComplete(fakeReply{}))
	assert.False(t, f.tryComplete(fakeReply{}), "second completion must be a no-op (I6)")
	assert.False(t, f.tryFail(assertCause), "fail after complete must be a no-op (I6)")

	reply, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reply)
}

func TestPendingRequest_SeqNeverChangesAcrossRetries(t *testing.T) {
	p := newPendingRequest(3, "RAFT", buildTestRequestEntry, nil)
	before := p.Seq()
	p.newRequestImpl()
	p.attemptCount.Add(1)
	p.newRequestImpl()
	p.attemptCount.Add(1)
	assert.Equal(t, before, p.Seq())
}
