package profile

import (
	"context"

	"github.com/kailas-cloud/profilesearch/internal/domain/outcome"
	"github.com/kailas-cloud/profilesearch/internal/domain/predicate"
	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
	"github.com/kailas-cloud/profilesearch/internal/domain/query"
)

// Store is the record store contract consumed by the service.
//
// Find returns an empty slice (not an error) when nothing matches.
// FindByID returns domain.ErrNotFound for a missing profile.
// Insert returns domain.ErrAlreadyExists when usrName is taken; the store is
// the only arbiter of uniqueness.
type Store interface {
	Find(ctx context.Context, p predicate.Predicate) ([]domprofile.Profile, error)
	FindByID(ctx context.Context, id string) (domprofile.Profile, error)
	ExistsWhere(ctx context.Context, p predicate.Predicate) (bool, error)
	Insert(ctx context.Context, p domprofile.Profile) (domprofile.Profile, error)
}

// Observer is notified before validation and after classification of every operation.
type Observer interface {
	Before(ctx context.Context, op string, params query.Params)
	After(ctx context.Context, ev outcome.Event)
}
