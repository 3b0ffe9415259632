package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// ContextWithLogger returns a copy of ctx that carries l.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContextOr returns the logger stored by ContextWithLogger, or fallback.
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	l, _ := ctx.Value(loggerKey{}).(*zap.Logger)
	if l == nil {
		return fallback
	}
	return l
}

// FromContext is FromContextOr with a no-op fallback.
func FromContext(ctx context.Context) *zap.Logger {
	return FromContextOr(ctx, zap.NewNop())
}
