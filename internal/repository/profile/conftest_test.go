package profile

import (
	"context"
	"testing"

	"github.com/kailas-cloud/profilesearch/internal/db"
	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	delFn         func(ctx context.Context, key string) error
	setNXFn       func(ctx context.Context, key, value string) (bool, error)
	searchFn      func(ctx context.Context, req db.SearchRequest) (*db.SearchResult, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	infix         bool
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) SetNX(ctx context.Context, key, value string) (bool, error) {
	if m.setNXFn != nil {
		return m.setNXFn(ctx, key, value)
	}
	return true, nil
}

func (m *mockStore) Search(ctx context.Context, req db.SearchRequest) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SupportsInfixSearch(_ context.Context) bool { return m.infix }

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{infix: true}
	return New(ms, "profiles:"), ms
}

func testProfile(t *testing.T, id, usr, first, last string) domprofile.Profile {
	t.Helper()
	p, err := domprofile.New(id, domprofile.Attributes{UsrName: usr, First: first, Last: last, Country: "France"})
	if err != nil {
		t.Fatalf("domprofile.New: %v", err)
	}
	return p
}

func entry(id, usr, first, last string) db.SearchEntry {
	return db.SearchEntry{
		Key: "profiles:user:" + id,
		Fields: map[string]string{
			fieldUsrName: usr,
			fieldFirst:   first,
			fieldLast:    last,
		},
	}
}

// pagedSearch serves entries honouring Offset and Limit, recording each request.
func pagedSearch(entries []db.SearchEntry, reqs *[]db.SearchRequest) func(context.Context, db.SearchRequest) (*db.SearchResult, error) {
	return func(_ context.Context, req db.SearchRequest) (*db.SearchResult, error) {
		*reqs = append(*reqs, req)
		lo := min(req.Offset, len(entries))
		hi := min(lo+req.Limit, len(entries))
		return &db.SearchResult{Total: len(entries), Entries: entries[lo:hi]}, nil
	}
}
