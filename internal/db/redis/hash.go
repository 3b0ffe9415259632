package redis

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/profilesearch/internal/db"
)

// HSet writes fields into the hash at key, in field-name order.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return fmt.Errorf("hset %s: no fields", key)
	}
	cmd := s.b().Hset().Key(key).FieldValue()
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		cmd = cmd.FieldValue(name, fields[name])
	}
	return db.Wrap(db.OpHSet, s.do(ctx, cmd.Build()).Error())
}

// HGetAll returns all fields of a hash. A missing key yields db.ErrKeyNotFound.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, db.Wrap(db.OpHGetAll, err)
	}
	if len(m) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return m, nil
}

// HGetAllMulti fetches all fields for multiple hashes in a single DoMulti round-trip.
// Missing keys yield empty maps.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, 0, len(keys))
	for _, key := range keys {
		cmds = append(cmds, s.b().Hgetall().Key(key).Build())
	}

	out := make([]map[string]string, 0, len(keys))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, db.Wrap(db.OpHGetAll, fmt.Errorf("key %s: %w", keys[i], err))
		}
		out = append(out, m)
	}
	return out, nil
}

// Del removes key. Deleting an absent key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	return db.Wrap(db.OpDel, s.do(ctx, s.b().Del().Key(key).Build()).Error())
}

const scanBatch = 100

// Scan walks the keyspace and collects every key matching pattern.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for first := true; first || cursor != 0; first = false {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(scanBatch).Build()
		page, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, db.Wrap(db.OpScan, err)
		}
		keys = append(keys, page.Elements...)
		cursor = page.Cursor
	}
	return keys, nil
}
