package redis

import (
	"context"

	"github.com/kailas-cloud/profilesearch/internal/db"
)

// CreateIndex runs FT.CREATE for def. An existing index yields db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := def.CreateArgs()
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	err = s.do(ctx, cmd).Error()
	if serverErrorContains(err, "index already exists") {
		return db.ErrIndexExists
	}
	return db.Wrap(db.OpCreateIndex, err)
}

// IndexExists probes the index with FT.INFO.
// Redis answers "unknown index name" and valkey-search "... not found" for a missing index.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	err := s.do(ctx, cmd).Error()
	switch {
	case err == nil:
		return true, nil
	case serverErrorContains(err, "unknown index name"), serverErrorContains(err, "not found"):
		return false, nil
	default:
		return false, db.Wrap(db.OpIndexInfo, err)
	}
}

// SupportsInfixSearch is true for Redis 8+; valkey-search only handles exact and prefix TAG terms.
func (s *Store) SupportsInfixSearch(_ context.Context) bool {
	return s.flavor == FlavorRedis
}
