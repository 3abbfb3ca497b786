package log

import "context"

type ctxKey struct{}

// IntoContext returns a copy of ctx carrying the logger. The scheduler
// attaches its logger before invoking callbacks so that handlers, actions
// and the transition resolver share one trace stream.
func IntoContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger carried by ctx, or a NopLogger when none
// is attached.
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return logger
	}
	return NopLogger{}
}
