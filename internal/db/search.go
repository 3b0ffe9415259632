package db

import (
	"errors"
	"strconv"
)

// SearchRequest is one FT.SEARCH page over a single index.
type SearchRequest struct {
	Index  string
	Query  string
	Offset int
	Limit  int
	// Return restricts the hash fields sent back. Empty means all fields.
	Return []string
}

// MatchAll reports whether the request selects every document of the index.
func (r SearchRequest) MatchAll() bool { return r.Query == "" || r.Query == "*" }

// Args renders the FT.SEARCH arguments that follow the command name.
func (r SearchRequest) Args() ([]string, error) {
	if r.Index == "" {
		return nil, errors.New("search: index name required")
	}
	if r.Offset < 0 || r.Limit < 0 {
		return nil, errors.New("search: negative paging")
	}
	query := r.Query
	if query == "" {
		query = "*"
	}
	args := make([]string, 0, 8+len(r.Return))
	args = append(args, r.Index, query, "LIMIT", strconv.Itoa(r.Offset), strconv.Itoa(r.Limit))
	if n := len(r.Return); n > 0 {
		args = append(args, "RETURN", strconv.Itoa(n))
		args = append(args, r.Return...)
	}
	return append(args, "DIALECT", "2"), nil
}

// SearchResult holds the total hit count and the hashes on the requested page.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hash hit.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
