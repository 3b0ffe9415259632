package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/profilesearch/internal/db"
	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/predicate"
	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
)

const (
	defaultMaxResults = 100
	releaseTimeout    = 2 * time.Second
)

// store is the consumer interface for profiles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	SetNX(ctx context.Context, key, value string) (bool, error)
	Search(ctx context.Context, req db.SearchRequest) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsInfixSearch(ctx context.Context) bool
}

// Repo implements usecase/profile.Store over HASH records and an FT index.
//
// Every result set is re-checked with Predicate.Matches: clauses the engine
// cannot express (infix on valkey, one-letter prefixes) are left to that filter.
type Repo struct {
	store      store
	keyPrefix  string
	maxResults int
}

// New creates a profile repository. keyPrefix namespaces every key (e.g. "profiles:").
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, maxResults: defaultMaxResults}
}

// WithMaxResults bounds the number of records fetched per search.
func (r *Repo) WithMaxResults(n int) *Repo {
	if n > 0 {
		r.maxResults = n
	}
	return r
}

// EnsureIndex creates the profile index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := r.indexName()
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def, err := buildIndex(name, r.userPrefix())
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// Find returns every profile matching p, up to maxResults.
//
// The post-filter can drop hits, so pages are read until maxResults matches
// are collected or the engine's total is exhausted.
func (r *Repo) Find(ctx context.Context, p predicate.Predicate) ([]domprofile.Profile, error) {
	req := db.SearchRequest{
		Index:  r.indexName(),
		Query:  buildQuery(p, r.store.SupportsInfixSearch(ctx)),
		Limit:  r.maxResults,
		Return: recordFields,
	}

	out := []domprofile.Profile{}
	for len(out) < r.maxResults {
		page, err := r.store.Search(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("search %q offset %d: %w", req.Query, req.Offset, err)
		}
		if page == nil {
			break
		}
		for _, entry := range page.Entries {
			rec := parseHashFields(r.extractID(entry.Key), entry.Fields)
			if p.IsAll() || p.Matches(&rec) {
				out = append(out, rec)
				if len(out) == r.maxResults {
					break
				}
			}
		}
		req.Offset += req.Limit
		if req.Offset >= page.Total {
			break
		}
	}
	return out, nil
}

// FindByID loads one profile by ID.
func (r *Repo) FindByID(ctx context.Context, id string) (domprofile.Profile, error) {
	key := r.userKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domprofile.Profile{}, domain.ErrNotFound
		}
		return domprofile.Profile{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return parseHashFields(id, fields), nil
}

// ExistsWhere reports whether any profile matches p.
func (r *Repo) ExistsWhere(ctx context.Context, p predicate.Predicate) (bool, error) {
	found, err := r.Find(ctx, p)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// Insert stores a new profile. The usrName claim key is taken with SET NX
// first; losing the claim means another registration already owns the name.
func (r *Repo) Insert(ctx context.Context, p domprofile.Profile) (domprofile.Profile, error) {
	claim := r.claimKey(p.UsrName())
	ok, err := r.store.SetNX(ctx, claim, p.ID())
	if err != nil {
		return domprofile.Profile{}, fmt.Errorf("claim %s: %w", claim, err)
	}
	if !ok {
		return domprofile.Profile{}, fmt.Errorf("usrName %q: %w", p.UsrName(), domain.ErrAlreadyExists)
	}

	key := r.userKey(p.ID())
	if err := r.store.HSet(ctx, key, buildHashFields(&p)); err != nil {
		if relErr := r.releaseClaim(ctx, claim); relErr != nil {
			err = errors.Join(err, relErr)
		}
		return domprofile.Profile{}, fmt.Errorf("hset %s: %w", key, err)
	}
	return p, nil
}

// releaseClaim drops a usrName claim after a failed insert. It runs detached
// from ctx: a request that already hit its deadline must still free the name.
func (r *Repo) releaseClaim(ctx context.Context, claim string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := r.store.Del(ctx, claim); err != nil {
		return fmt.Errorf("release claim %s: %w", claim, err)
	}
	return nil
}
