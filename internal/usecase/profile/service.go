package profile

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/outcome"
	"github.com/kailas-cloud/profilesearch/internal/domain/predicate"
	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
	"github.com/kailas-cloud/profilesearch/internal/domain/query"
	"github.com/kailas-cloud/profilesearch/internal/domain/schema"
	"github.com/kailas-cloud/profilesearch/internal/domain/validate"
)

// Service runs profile lookups, searches and registration.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	store    Store
	observer Observer
	newID    func() string
}

// New creates a profile service. observer may be nil.
func New(store Store, observer Observer) *Service {
	if observer == nil {
		observer = Observers{}
	}
	return &Service{
		store:    store,
		observer: observer,
		newID:    uuid.NewString,
	}
}

// WithIDGenerator overrides profile ID generation.
func (s *Service) WithIDGenerator(fn func() string) *Service {
	if fn != nil {
		s.newID = fn
	}
	return s
}

// ListAll returns every profile. It is the only operation that runs an unconstrained predicate.
func (s *Service) ListAll(ctx context.Context) outcome.Outcome {
	return s.run(ctx, OpListAll, nil, func(ctx context.Context) ([]domprofile.Profile, error) {
		return s.store.Find(ctx, predicate.All())
	})
}

// FindByID looks a profile up by its identifier.
func (s *Service) FindByID(ctx context.Context, id string) outcome.Outcome {
	params := query.Params{"id": query.Scalar(id)}
	return s.run(ctx, OpFindByID, params, func(ctx context.Context) ([]domprofile.Profile, error) {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: field %q is required", domain.ErrValidationRejected, "id")
		}
		p, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find by id: %w", err)
		}
		return []domprofile.Profile{p}, nil
	})
}

// FindByName searches by first and/or last name prefix. Undeclared parameters are rejected.
func (s *Service) FindByName(ctx context.Context, params query.Params) outcome.Outcome {
	return s.search(ctx, OpFindByName, params, findByNameSchema, validate.Strict)
}

// FindByCountry searches by country prefix. Undeclared parameters are ignored.
func (s *Service) FindByCountry(ctx context.Context, params query.Params) outcome.Outcome {
	return s.search(ctx, OpFindByCountry, params, findByCountrySchema, validate.Lenient)
}

// Find runs a custom query over any combination of searchable fields.
func (s *Service) Find(ctx context.Context, params query.Params) outcome.Outcome {
	return s.search(ctx, OpFind, params, findSchema, validate.Lenient)
}

// Available reports whether usrName is free. The check is advisory:
// Register does not rely on it.
func (s *Service) Available(ctx context.Context, params query.Params) (bool, error) {
	start := time.Now()
	s.observer.Before(ctx, OpAvailable, params)

	available, err := s.available(ctx, params)

	s.observer.After(ctx, outcome.NewEvent(OpAvailable, 1, err, time.Since(start)))
	return available, err
}

func (s *Service) available(ctx context.Context, params query.Params) (bool, error) {
	p, err := compile(params, availableSchema, validate.Strict)
	if err != nil {
		return false, err
	}
	taken, err := s.store.ExistsWhere(ctx, p)
	if err != nil {
		return false, fmt.Errorf("exists where: %w", err)
	}
	return !taken, nil
}

// Register validates params strictly and inserts a new profile.
// A taken usrName surfaces as domain.ErrAlreadyExists from the store.
func (s *Service) Register(ctx context.Context, params query.Params) (domprofile.Profile, error) {
	start := time.Now()
	s.observer.Before(ctx, OpRegister, params)

	p, err := s.register(ctx, params)

	s.observer.After(ctx, outcome.NewEvent(OpRegister, 1, err, time.Since(start)))
	return p, err
}

func (s *Service) register(ctx context.Context, params query.Params) (domprofile.Profile, error) {
	res := validate.Validate(params, registerSchema, validate.Strict)
	if !res.IsValid() {
		return domprofile.Profile{}, res.Err()
	}

	attrs, err := attributesFrom(res.Params())
	if err != nil {
		return domprofile.Profile{}, err
	}
	p, err := domprofile.New(s.newID(), attrs)
	if err != nil {
		return domprofile.Profile{}, fmt.Errorf("%w: %w", domain.ErrValidationRejected, err)
	}

	created, err := s.store.Insert(ctx, p)
	if err != nil {
		return domprofile.Profile{}, fmt.Errorf("insert: %w", err)
	}
	return created, nil
}

func (s *Service) search(
	ctx context.Context, op string, params query.Params, sc schema.Schema, mode validate.Mode,
) outcome.Outcome {
	return s.run(ctx, op, params, func(ctx context.Context) ([]domprofile.Profile, error) {
		p, err := compile(params, sc, mode)
		if err != nil {
			return nil, err
		}
		records, err := s.store.Find(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("find: %w", err)
		}
		return records, nil
	})
}

func (s *Service) run(
	ctx context.Context, op string, params query.Params,
	fn func(context.Context) ([]domprofile.Profile, error),
) outcome.Outcome {
	start := time.Now()
	s.observer.Before(ctx, op, params)

	records, err := fn(ctx)
	o := outcome.Classify(records, err)

	s.observer.After(ctx, outcome.NewEvent(op, len(o.Records()), err, time.Since(start)))
	return o
}

// compile validates params and turns the accepted subset into a predicate.
func compile(params query.Params, sc schema.Schema, mode validate.Mode) (predicate.Predicate, error) {
	res := validate.Validate(params, sc, mode)
	if !res.IsValid() {
		return predicate.Predicate{}, res.Err()
	}
	return predicate.Compile(res.Params(), sc)
}

func attributesFrom(params query.Params) (domprofile.Attributes, error) {
	var a domprofile.Attributes
	if v, ok := params.Lookup(ParamUsrName); ok {
		a.UsrName = strings.TrimSpace(v.String())
	}
	if v, ok := params.Lookup(ParamName); ok {
		a.First, _ = v.Member(ParamFirst)
		a.Last, _ = v.Member(ParamLast)
	}
	if v, ok := params.Lookup(ParamCountry); ok {
		a.Country = v.String()
	}
	if v, ok := params.Lookup(ParamFavoriteExercise); ok {
		a.FavoriteExercise = v.String()
	}
	if v, ok := params.Lookup(ParamAge); ok && strings.TrimSpace(v.String()) != "" {
		n, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil || n != math.Trunc(n) {
			return a, fmt.Errorf("%w: field %q must be a whole number", domain.ErrValidationRejected, ParamAge)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return a, fmt.Errorf("%w: field %q out of range", domain.ErrValidationRejected, ParamAge)
		}
		age := int(n)
		a.Age = &age
	}
	return a, nil
}
