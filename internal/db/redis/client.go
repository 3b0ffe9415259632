package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/profilesearch/internal/db"
)

var _ db.Store = (*Store)(nil)

// Flavor selects server-specific query behaviour.
type Flavor string

const (
	// FlavorRedis targets Redis 8+ with the query engine.
	FlavorRedis Flavor = "redis"
	// FlavorValkey targets Valkey with valkey-search: no infix TAG wildcards and
	// no bare "*" FT.SEARCH.
	FlavorValkey Flavor = "valkey"
)

// Config holds connection parameters for a Redis or Valkey store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	Flavor   Flavor
}

// Store implements db.Store via rueidis.
type Store struct {
	client rueidis.Client
	flavor Flavor
}

func (f Flavor) orDefault() Flavor {
	if f == "" {
		return FlavorRedis
	}
	return f
}

// NewStore dials the servers in cfg.Addrs. The client speaks RESP2 with
// client-side caching off, since search replies are decoded as flat arrays.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}
	flavor := cfg.Flavor.orDefault()
	if flavor != FlavorRedis && flavor != FlavorValkey {
		return nil, fmt.Errorf("redis: unknown flavor %q", flavor)
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: connect %v: %w", cfg.Addrs, err)
	}

	return &Store{client: client, flavor: flavor}, nil
}

// NewStoreWithClient wraps an existing rueidis client (tests, shared clients).
func NewStoreWithClient(c rueidis.Client, flavor Flavor) *Store {
	return &Store{client: c, flavor: flavor.orDefault()}
}

// Flavor returns the configured server flavor.
func (s *Store) Flavor() Flavor { return s.flavor }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	return db.Wrap(db.OpPing, s.client.Do(ctx, cmd).Error())
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

const readyPollInterval = 100 * time.Millisecond

// WaitForReady blocks until PING succeeds. It gives up after timeout and
// returns the last ping error alongside the context error.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for {
		if lastErr = s.Ping(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis not ready after %s: %w", timeout, errors.Join(ctx.Err(), lastErr))
		case <-time.After(readyPollInterval):
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// serverErrorContains matches a server-side error reply by message, ignoring case.
func serverErrorContains(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	return ok && strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
