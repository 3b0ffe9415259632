package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/profilesearch/internal/domain/outcome"
	"github.com/kailas-cloud/profilesearch/internal/domain/query"
	"github.com/kailas-cloud/profilesearch/internal/logger"
)

// Observers fans notifications out to each observer in order.
type Observers []Observer

// Before notifies every observer.
func (o Observers) Before(ctx context.Context, op string, params query.Params) {
	for _, ob := range o {
		ob.Before(ctx, op, params)
	}
}

// After notifies every observer.
func (o Observers) After(ctx context.Context, ev outcome.Event) {
	for _, ob := range o {
		ob.After(ctx, ev)
	}
}

// LogObserver writes one structured line per finished operation.
// The request-scoped logger from the context wins over the fallback.
type LogObserver struct {
	fallback *zap.Logger
}

// NewLogObserver creates a zap-backed observer.
func NewLogObserver(fallback *zap.Logger) *LogObserver {
	if fallback == nil {
		fallback = zap.NewNop()
	}
	return &LogObserver{fallback: fallback}
}

// Before logs the parameter names (never the values) at debug level.
func (o *LogObserver) Before(ctx context.Context, op string, params query.Params) {
	o.loggerFor(ctx).Debug("Operation started",
		zap.String("operation", op),
		zap.Strings("params", params.Keys()),
	)
}

// After logs the classified outcome. Store failures are logged at error level.
func (o *LogObserver) After(ctx context.Context, ev outcome.Event) {
	fields := []zap.Field{
		zap.String("operation", ev.Op),
		zap.String("outcome", string(ev.Kind)),
		zap.Int("records", ev.Records),
		zap.Duration("duration", ev.Duration),
	}
	l := o.loggerFor(ctx)
	switch ev.Kind {
	case outcome.StoreFailure:
		l.Error("Operation failed", append(fields, zap.Error(ev.Err))...)
	case outcome.Rejected, outcome.Conflict:
		l.Info("Operation rejected", append(fields, zap.String("reason", ev.Err.Error()))...)
	default:
		l.Info("Operation completed", fields...)
	}
}

func (o *LogObserver) loggerFor(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, o.fallback)
}
