package client

import (
	"time"

	"github.com/armon/go-metrics"
)

// metricsSink wraps github.com/armon/go-metrics the way
// mauri870-raft/replication.go uses it directly (metrics.MeasureSince,
// metrics.IncrCounter) rather than through an injected interface: the
// package-level global sink is the library's own idiom, and call sites
// read the same whether or not a *metrics.Metrics was ever configured
// (it falls back to a no-op sink).
type metricsSink struct {
	prefix []string
}

func newMetricsSink(prefix ...string) *metricsSink {
	if len(prefix) == 0 {
		prefix = []string{"raftclient"}
	}
	return &metricsSink{prefix: prefix}
}

func (m *metricsSink) key(parts ...string) []string {
	return append(append([]string{}, m.prefix...), parts...)
}

func (m *metricsSink) incrRetry(windowKey string) {
	metrics.IncrCounter(m.key("window", windowKey, "retry"), 1)
}

func (m *metricsSink) incrTerminalFailure(windowKey string) {
	metrics.IncrCounter(m.key("window", windowKey, "failed"), 1)
}

func (m *metricsSink) observeInFlight(n int) {
	metrics.SetGauge(m.key("admission", "inflight"), float32(n))
}

func (m *metricsSink) observeSendLatency(start time.Time, windowKey string) {
	metrics.MeasureSince(m.key("window", windowKey, "send"), start)
}
