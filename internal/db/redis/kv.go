package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/profilesearch/internal/db"
)

// SetNX stores value only when key is absent (SET key value NX).
func (s *Store) SetNX(ctx context.Context, key, value string) (bool, error) {
	cmd := s.b().Set().Key(key).Value(value).Nx().Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, db.Wrap(db.OpSetNX, err)
	}
	return true, nil
}
