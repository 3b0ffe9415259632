package outcome

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/profile"
)

func TestClassify(t *testing.T) {
	ann := profile.Reconstruct("u1", profile.Attributes{UsrName: "ann", First: "Ann", Last: "Lee"})

	tests := []struct {
		name    string
		records []profile.Profile
		err     error
		kind    Kind
		status  int
		reason  string
	}{
		{
			name:    "found",
			records: []profile.Profile{ann},
			kind:    Found,
			status:  http.StatusOK,
		},
		{
			name:   "zero records",
			kind:   NotFound,
			status: http.StatusNotFound,
			reason: ReasonNotFound,
		},
		{
			name:   "empty query",
			err:    domain.ErrEmptyQuery,
			kind:   Rejected,
			status: http.StatusBadRequest,
			reason: "empty query",
		},
		{
			name:   "validation",
			err:    fmt.Errorf("find by name: %w: unexpected field %q", domain.ErrValidationRejected, "extra"),
			kind:   Rejected,
			status: http.StatusBadRequest,
			reason: `unexpected field "extra"`,
		},
		{
			name:   "store unavailable",
			err:    fmt.Errorf("find: %w", domain.ErrStoreUnavailable),
			kind:   StoreFailure,
			status: http.StatusInternalServerError,
			reason: ReasonStoreFailure,
		},
		{
			name:   "unclassified error",
			err:    context.DeadlineExceeded,
			kind:   StoreFailure,
			status: http.StatusInternalServerError,
			reason: ReasonStoreFailure,
		},
		{
			name:   "missing by id",
			err:    fmt.Errorf("find by id: %w", domain.ErrNotFound),
			kind:   NotFound,
			status: http.StatusNotFound,
			reason: ReasonNotFound,
		},
		{
			name:   "uniqueness violation",
			err:    fmt.Errorf("insert: %w", domain.ErrAlreadyExists),
			kind:   Conflict,
			status: http.StatusConflict,
			reason: ReasonConflict,
		},
		{
			name:    "error wins over records",
			records: []profile.Profile{ann},
			err:     domain.ErrStoreUnavailable,
			kind:    StoreFailure,
			status:  http.StatusInternalServerError,
			reason:  ReasonStoreFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Classify(tt.records, tt.err)
			if o.Kind() != tt.kind {
				t.Errorf("Kind() = %q, want %q", o.Kind(), tt.kind)
			}
			if o.Status() != tt.status {
				t.Errorf("Status() = %d, want %d", o.Status(), tt.status)
			}
			if o.Reason() != tt.reason {
				t.Errorf("Reason() = %q, want %q", o.Reason(), tt.reason)
			}
			if tt.err != nil && !errors.Is(o.Err(), tt.err) {
				t.Errorf("Err() = %v, want %v", o.Err(), tt.err)
			}
		})
	}
}

func TestClassify_FoundKeepsRecords(t *testing.T) {
	records := []profile.Profile{
		profile.Reconstruct("u1", profile.Attributes{UsrName: "a"}),
		profile.Reconstruct("u2", profile.Attributes{UsrName: "b"}),
	}
	o := Classify(records, nil)
	if len(o.Records()) != 2 {
		t.Fatalf("len(Records()) = %d, want 2", len(o.Records()))
	}
	if o.Err() != nil {
		t.Errorf("Err() = %v, want nil", o.Err())
	}
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent("find_by_name", 3, nil, 5*time.Millisecond)
	if ev.Kind != Found || ev.Records != 3 || ev.Op != "find_by_name" {
		t.Errorf("unexpected event: %+v", ev)
	}

	ev = NewEvent("register", 0, domain.ErrAlreadyExists, time.Millisecond)
	if ev.Kind != Conflict {
		t.Errorf("Kind = %q, want conflict", ev.Kind)
	}
}

func TestRejectionReason_NoPrefix(t *testing.T) {
	if got := RejectionReason(errors.New("plain")); got != "plain" {
		t.Errorf("RejectionReason() = %q", got)
	}
}
