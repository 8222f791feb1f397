package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmissionGate_BlocksAtCapacity(t *testing.T) {
	gate := newAdmissionGate(1)
	ctx := context.Background()

	require.NoError(t, gate.Acquire(ctx))
	assert.Equal(t, 1, gate.InUse())

	acquired := make(chan struct{})
	go func() {
		_ = gate.Acquire(ctx)
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should block while the gate is saturated")
	case <-time.After(30 * time.Millisecond):
	}

	gate.Release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire should unblock after release")
	}
}

func TestAdmissionGate_CtxCancelSurfacesInterrupted(t *testing.T) {
	gate := newAdmissionGate(1)
	ctx := context.Background()
	require.NoError(t, gate.Acquire(ctx))

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	err := gate.Acquire(cancelCtx)
	assert.ErrorIs(t, err, ErrInterruptedAdmission)
}
