// Package memory is an in-process profile store for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/predicate"
	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
)

const defaultMaxResults = 100

// Repo implements usecase/profile.Store. Records are returned in insertion order.
type Repo struct {
	mu         sync.RWMutex
	byID       map[string]domprofile.Profile
	order      []string
	usrNames   map[string]string // UsrNameKey -> id
	maxResults int
}

// New creates an empty repository.
func New() *Repo {
	return &Repo{
		byID:       make(map[string]domprofile.Profile),
		usrNames:   make(map[string]string),
		maxResults: defaultMaxResults,
	}
}

// WithMaxResults bounds the number of records returned per search.
func (r *Repo) WithMaxResults(n int) *Repo {
	if n > 0 {
		r.maxResults = n
	}
	return r
}

// Find returns profiles matching p in insertion order.
func (r *Repo) Find(ctx context.Context, p predicate.Predicate) ([]domprofile.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domprofile.Profile, 0)
	for _, id := range r.order {
		rec := r.byID[id]
		if !p.IsAll() && !p.Matches(&rec) {
			continue
		}
		out = append(out, rec)
		if len(out) == r.maxResults {
			break
		}
	}
	return out, nil
}

// FindByID returns domain.ErrNotFound for an unknown id.
func (r *Repo) FindByID(ctx context.Context, id string) (domprofile.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domprofile.Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return domprofile.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

// ExistsWhere reports whether any profile matches p.
func (r *Repo) ExistsWhere(ctx context.Context, p predicate.Predicate) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.byID {
		if p.IsAll() || p.Matches(&rec) {
			return true, nil
		}
	}
	return false, nil
}

// Insert adds p. usrName uniqueness is case-insensitive and checked under the write lock.
func (r *Repo) Insert(ctx context.Context, p domprofile.Profile) (domprofile.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domprofile.Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domprofile.UsrNameKey(p.UsrName())
	if _, taken := r.usrNames[key]; taken {
		return domprofile.Profile{}, fmt.Errorf("usrName %q: %w", p.UsrName(), domain.ErrAlreadyExists)
	}
	if _, dup := r.byID[p.ID()]; dup {
		return domprofile.Profile{}, fmt.Errorf("id %q: %w", p.ID(), domain.ErrAlreadyExists)
	}

	r.byID[p.ID()] = p
	r.order = append(r.order, p.ID())
	r.usrNames[key] = p.ID()
	return p, nil
}
