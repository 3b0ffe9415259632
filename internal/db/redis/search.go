package redis

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/profilesearch/internal/db"
)

// Search runs one FT.SEARCH page. valkey-search rejects a bare "*", so on
// valkey a match-all request is served by SCAN over the index key prefix.
func (s *Store) Search(ctx context.Context, req db.SearchRequest) (*db.SearchResult, error) {
	if req.MatchAll() && s.flavor == FlavorValkey {
		return s.scanPage(ctx, req)
	}

	args, err := req.Args()
	if err != nil {
		return nil, err
	}
	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	reply, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, db.Wrap(db.OpSearch, err)
	}
	return decodeSearchReply(reply)
}

func (s *Store) scanPage(ctx context.Context, req db.SearchRequest) (*db.SearchResult, error) {
	keys, err := s.Scan(ctx, indexToKeyPrefix(req.Index)+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", req.Index, err)
	}
	slices.Sort(keys)

	res := &db.SearchResult{Total: len(keys)}
	lo := min(req.Offset, len(keys))
	hi := min(lo+req.Limit, len(keys))
	page := keys[lo:hi]
	if len(page) == 0 {
		return res, nil
	}

	hashes, err := s.HGetAllMulti(ctx, page)
	if err != nil {
		return nil, err
	}
	res.Entries = make([]db.SearchEntry, 0, len(page))
	for i, key := range page {
		// removed between SCAN and HGETALL
		if len(hashes[i]) == 0 {
			continue
		}
		res.Entries = append(res.Entries, db.SearchEntry{Key: key, Fields: hashes[i]})
	}
	return res, nil
}

// indexToKeyPrefix maps "profiles:user:idx" to "profiles:user:".
func indexToKeyPrefix(index string) string {
	if base, ok := strings.CutSuffix(index, "idx"); ok && strings.HasSuffix(base, ":") {
		return base
	}
	return index + ":"
}

// decodeSearchReply reads a DIALECT 2 reply: total, then key and field list pairs.
func decodeSearchReply(reply []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(reply) == 0 {
		return &db.SearchResult{}, nil
	}
	total, err := reply[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("search reply total: %w", err)
	}

	res := &db.SearchResult{Total: int(total)}
	for rest := reply[1:]; len(rest) >= 2; rest = rest[2:] {
		key, kerr := rest[0].ToString()
		pairs, ferr := rest[1].ToArray()
		if kerr != nil || ferr != nil {
			continue
		}
		res.Entries = append(res.Entries, db.SearchEntry{Key: key, Fields: pairsToMap(pairs)})
	}
	return res, nil
}

func pairsToMap(pairs []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(pairs)/2)
	for ; len(pairs) >= 2; pairs = pairs[2:] {
		name, nerr := pairs[0].ToString()
		value, verr := pairs[1].ToString()
		if nerr == nil && verr == nil {
			m[name] = value
		}
	}
	return m
}
