package outcome

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/profile"
)

// Kind is the classification of an operation result.
type Kind string

// Outcome kinds.
const (
	Found        Kind = "found"
	NotFound     Kind = "not_found"
	Rejected     Kind = "rejected"
	Conflict     Kind = "conflict"
	StoreFailure Kind = "store_failure"
)

// Reasons reported for non-rejection failures.
const (
	ReasonNotFound     = "no users found"
	ReasonConflict     = "usrName already taken"
	ReasonStoreFailure = "store unavailable"
)

// KindOf classifies a result count and error.
//
// Rejections come from validation or compilation and never reach the store.
// An empty result set is NotFound, never an error. Any unrecognised error is a
// store failure.
func KindOf(count int, err error) Kind {
	switch {
	case err == nil && count == 0:
		return NotFound
	case err == nil:
		return Found
	case domain.IsRejection(err):
		return Rejected
	case errors.Is(err, domain.ErrNotFound):
		return NotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return Conflict
	default:
		return StoreFailure
	}
}

// Outcome is the classified result of one search operation.
type Outcome struct {
	kind    Kind
	records []profile.Profile
	reason  string
	err     error
}

// Classify maps the store result (or an earlier core error) to an Outcome.
func Classify(records []profile.Profile, err error) Outcome {
	kind := KindOf(len(records), err)
	o := Outcome{kind: kind, err: err}
	switch kind {
	case Found:
		o.records = records
	case NotFound:
		o.reason = ReasonNotFound
	case Rejected:
		o.reason = RejectionReason(err)
	case Conflict:
		o.reason = ReasonConflict
	default:
		o.reason = ReasonStoreFailure
	}
	return o
}

// Kind returns the outcome kind.
func (o *Outcome) Kind() Kind { return o.kind }

// Records returns the matched profiles (Found only).
func (o *Outcome) Records() []profile.Profile { return o.records }

// Reason returns the client-facing reason, empty for Found.
func (o *Outcome) Reason() string { return o.reason }

// Err returns the underlying error, nil for Found and an empty result set.
func (o *Outcome) Err() error { return o.err }

// Status maps the outcome to an HTTP status code.
func (o *Outcome) Status() int {
	return StatusOf(o.kind)
}

// StatusOf maps a kind to an HTTP status code.
func StatusOf(k Kind) int {
	switch k {
	case Found:
		return http.StatusOK
	case NotFound:
		return http.StatusNotFound
	case Rejected:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RejectionReason strips the sentinel prefix so clients see only the detail.
func RejectionReason(err error) string {
	if errors.Is(err, domain.ErrEmptyQuery) {
		return domain.ErrEmptyQuery.Error()
	}
	msg := err.Error()
	prefix := domain.ErrValidationRejected.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// Event describes one finished operation for observers.
type Event struct {
	Op       string
	Kind     Kind
	Records  int
	Err      error
	Duration time.Duration
}

// NewEvent builds an Event, classifying count and err.
func NewEvent(op string, count int, err error, d time.Duration) Event {
	return Event{Op: op, Kind: KindOf(count, err), Records: count, Err: err, Duration: d}
}
