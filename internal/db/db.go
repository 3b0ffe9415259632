// Package db describes the key-value and search primitives the profile
// repositories need from a Redis-compatible backend.
package db

import (
	"context"
	"time"
)

// Store is everything a driver must offer. Repositories declare narrower
// interfaces of their own.
//
//nolint:interfacebloat // union of the role interfaces below
type Store interface {
	Pinger
	HashStore
	KVStore
	IndexManager
	Searcher
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

// Pinger is satisfied by anything health checks can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore reads and writes HASH records.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	// HGetAll fails with ErrKeyNotFound for an absent key.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HGetAllMulti keeps input order; absent keys come back as empty maps.
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, key string) error
}

// KVStore holds plain string keys used as uniqueness claims.
type KVStore interface {
	// SetNX reports false when key is already held.
	SetNX(ctx context.Context, key, value string) (bool, error)
	Del(ctx context.Context, key string) error
}

// IndexManager creates and inspects FT indexes.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	// SupportsInfixSearch is false on engines that reject {*text*} TAG patterns.
	SupportsInfixSearch(ctx context.Context) bool
}

// Searcher runs FT.SEARCH queries.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
}
