package client

import "context"

// admissionGate is a counting semaphore bounding the number of in-flight
// requests across all windows (spec.md §4.5, C5). Acquire blocks (or
// observes ctx cancellation) before any other work for a Send call;
// Release is called exactly once per successful Acquire, regardless of
// how the request eventually resolves (spec.md §5 "Cancellation").
type admissionGate struct {
	permits chan struct{}
}

func newAdmissionGate(capacity int) *admissionGate {
	return &admissionGate{permits: make(chan struct{}, capacity)}
}

// Acquire blocks until a permit is available or ctx is done. On
// cancellation it returns ErrInterruptedAdmission and the caller must not
// register anything on a window.
func (g *admissionGate) Acquire(ctx context.Context) error {
	select {
	case g.permits <- struct{}{}:
		return nil
	default:
	}
	select {
	case g.permits <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ErrInterruptedAdmission
	}
}

// Release returns one permit to the gate. Safe to call concurrently with
// Acquire.
func (g *admissionGate) Release() {
	select {
	case <-g.permits:
	default:
		// Release without a matching Acquire is a caller bug; ignored
		// rather than panicking so a stray double-release can't bring
		// down the process.
	}
}

// InUse reports the number of permits currently held, for metrics.
func (g *admissionGate) InUse() int {
	return len(g.permits)
}

// Capacity returns the gate's configured capacity.
func (g *admissionGate) Capacity() int {
	return cap(g.permits)
}
