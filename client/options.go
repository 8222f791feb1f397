package client

import (
	"code.cloudfoundry.org/clock"
	"go.uber.org/zap"
)

// defaultMaxOutstandingRequests is the only option spec.md §6.7
// recognizes, a small multiple of a typical per-window size.
const defaultMaxOutstandingRequests = 32

// Options holds the client's recognized configuration (spec.md §6.7),
// following the same plain-struct-plus-constructor shape as chain.go's
// Options passed into NewChain, rather than a generic key/value bag.
type Options struct {
	MaxOutstandingRequests int

	Clock  clock.Clock
	Logger *zap.Logger

	MetricsPrefix []string

	CallIDs CallIDSource
}

// Option mutates Options; Apply in order.
type Option func(*Options)

// WithMaxOutstandingRequests overrides the admission gate's capacity.
func WithMaxOutstandingRequests(n int) Option {
	return func(o *Options) { o.MaxOutstandingRequests = n }
}

// WithClock overrides the clock used for retry scheduling when New is
// given no Scheduler (a fakeclock.FakeClock from
// code.cloudfoundry.org/clock/fakeclock drives retries without real
// sleeps).
func WithClock(c clock.Clock) Option {
	return func(o *Options) { o.Clock = c }
}

// WithLogger overrides the base zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetricsPrefix overrides the armon/go-metrics key prefix.
func WithMetricsPrefix(prefix ...string) Option {
	return func(o *Options) { o.MetricsPrefix = prefix }
}

// WithCallIDSource overrides the default process-wide call-id generator,
// e.g. to share one CallIDSource across multiple Clients.
func WithCallIDSource(c CallIDSource) Option {
	return func(o *Options) { o.CallIDs = c }
}

func defaultOptions() Options {
	return Options{
		MaxOutstandingRequests: defaultMaxOutstandingRequests,
	}
}

func resolveOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
