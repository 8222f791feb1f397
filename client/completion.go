package client

import "context"

// completionPipeline is the boundary a caller sees through Client.Await
// (spec.md §4.7, C7). It translates Raft-level exceptions embedded in an otherwise
// normal reply into a caller-visible failure, and releases exactly one
// admission permit once the pending's future resolves — independent of
// whether or when any particular caller is still waiting on it, so a
// caller giving up early (ctx cancellation) never leaks or double-frees
// a permit.
type completionPipeline struct {
	gate    *admissionGate
	wrap    func(error) error
	metrics *metricsSink
}

func newCompletionPipeline(gate *admissionGate, metrics *metricsSink) *completionPipeline {
	return &completionPipeline{gate: gate, wrap: WrapEmbeddedException, metrics: metrics}
}

// Register ties pending's lifetime to the admission gate: the permit
// acquired for it is released exactly once, when its future resolves.
// Must be called once per admitted pending, right after admission.
func (c *completionPipeline) Register(pending *PendingRequest) {
	go func() {
		<-pending.Future.Done()
		c.gate.Release()
		c.metrics.observeInFlight(c.gate.InUse())
	}()
}

// Await waits for pending to resolve and applies the embedded-exception
// translation rule.
func (c *completionPipeline) Await(ctx context.Context, pending *PendingRequest) (Reply, error) {
	reply, err := pending.Future.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if reply != nil {
		if cause := reply.Exception(); cause != nil {
			return nil, c.wrap(cause)
		}
	}
	return reply, nil
}
