package client

import "go.uber.org/zap"

// logger reproduces the call shape of Fabric's *flogging.FabricLogger
// (Debugf/Infof/Warnf/Errorf plus a contextual With), backed by zap's
// sugared logger rather than flogging itself, since this module lives
// outside the Fabric tree.
type logger struct {
	s *zap.SugaredLogger
}

func newLogger(base *zap.Logger) *logger {
	if base == nil {
		base, _ = zap.NewProduction()
	}
	return &logger{s: base.Sugar()}
}

// With returns a logger annotated with the given key/value pairs,
// mirroring chain.go's `opts.Logger.With("channel", ..., "node", ...)`.
func (l *logger) With(kv ...any) *logger {
	return &logger{s: l.s.With(kv...)}
}

func (l *logger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l *logger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l *logger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l *logger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

// nopLogger returns a logger that discards everything, used as the
// default when no logger is supplied via options.
func nopLogger() *logger {
	return newLogger(zap.NewNop())
}
