package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/predicate"
	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
	"github.com/kailas-cloud/profilesearch/internal/metrics"
)

// Store operation labels.
const (
	storeOpFind        = "find"
	storeOpFindByID    = "find_by_id"
	storeOpExistsWhere = "exists_where"
	storeOpInsert      = "insert"
)

// InstrumentedStore wraps a Store with a per-call timeout, metrics and logging.
// Every error other than ErrNotFound and ErrAlreadyExists becomes ErrStoreUnavailable,
// annotated with the failing operation.
type InstrumentedStore struct {
	inner   Store
	timeout time.Duration
	logger  *zap.Logger
}

// NewInstrumentedStore wraps inner. A zero timeout leaves the caller's deadline alone.
func NewInstrumentedStore(inner Store, timeout time.Duration, logger *zap.Logger) *InstrumentedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedStore{inner: inner, timeout: timeout, logger: logger}
}

// Find delegates to the inner store.
func (s *InstrumentedStore) Find(ctx context.Context, p predicate.Predicate) ([]domprofile.Profile, error) {
	var out []domprofile.Profile
	err := s.call(ctx, storeOpFind, func(ctx context.Context) error {
		var err error
		out, err = s.inner.Find(ctx, p)
		return err
	})
	return out, err
}

// FindByID delegates to the inner store.
func (s *InstrumentedStore) FindByID(ctx context.Context, id string) (domprofile.Profile, error) {
	var out domprofile.Profile
	err := s.call(ctx, storeOpFindByID, func(ctx context.Context) error {
		var err error
		out, err = s.inner.FindByID(ctx, id)
		return err
	})
	return out, err
}

// ExistsWhere delegates to the inner store.
func (s *InstrumentedStore) ExistsWhere(ctx context.Context, p predicate.Predicate) (bool, error) {
	var out bool
	err := s.call(ctx, storeOpExistsWhere, func(ctx context.Context) error {
		var err error
		out, err = s.inner.ExistsWhere(ctx, p)
		return err
	})
	return out, err
}

// Insert delegates to the inner store.
func (s *InstrumentedStore) Insert(ctx context.Context, p domprofile.Profile) (domprofile.Profile, error) {
	var out domprofile.Profile
	err := s.call(ctx, storeOpInsert, func(ctx context.Context) error {
		var err error
		out, err = s.inner.Insert(ctx, p)
		return err
	})
	return out, err
}

func (s *InstrumentedStore) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)
	metrics.StoreDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAlreadyExists) {
		return err
	}

	errType := "unavailable"
	if errors.Is(err, context.DeadlineExceeded) {
		errType = "timeout"
	}
	metrics.StoreErrorsTotal.WithLabelValues(op, errType).Inc()

	s.logger.Error("Store call failed",
		zap.String("operation", op),
		zap.String("error_type", errType),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
