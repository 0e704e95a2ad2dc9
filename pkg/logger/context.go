package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With stores a child of the context logger carrying fields, so trace and
// user ids follow a request into services and event handlers.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// FromContext reports whether ctx carries a request logger. When it does not,
// the process logger is returned.
func FromContext(ctx context.Context) (*slog.Logger, bool) {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l, true
	}
	return LoggerWrapper(), false
}

func From(ctx context.Context) *slog.Logger {
	l, _ := FromContext(ctx)
	return l
}
