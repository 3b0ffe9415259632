package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/outcome"
)

func TestSearchObserver_After(t *testing.T) {
	obs := NewSearchObserver()
	ctx := context.Background()

	tests := []struct {
		op    string
		count int
		err   error
		kind  outcome.Kind
	}{
		{"find_by_name", 2, nil, outcome.Found},
		{"find_by_name", 0, nil, outcome.NotFound},
		{"find_by_country", 0, domain.ErrEmptyQuery, outcome.Rejected},
		{"register", 0, domain.ErrAlreadyExists, outcome.Conflict},
		{"find", 0, errors.Join(domain.ErrStoreUnavailable, context.DeadlineExceeded), outcome.StoreFailure},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			counter := SearchOutcomesTotal.WithLabelValues(tc.op, string(tc.kind))
			before := testutil.ToFloat64(counter)

			obs.Before(ctx, tc.op, nil)
			obs.After(ctx, outcome.NewEvent(tc.op, tc.count, tc.err, time.Millisecond))

			if after := testutil.ToFloat64(counter); after-before != 1 {
				t.Errorf("outcome counter delta = %f, want 1", after-before)
			}
		})
	}

	if testutil.CollectAndCount(SearchDuration) == 0 {
		t.Error("expected search_duration_seconds observations")
	}
	if testutil.CollectAndCount(SearchResultsReturned) == 0 {
		t.Error("expected search_results_returned observations")
	}
}

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics() // must not panic on duplicate registration
}
