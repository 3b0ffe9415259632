package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/query"
	"github.com/kailas-cloud/profilesearch/internal/domain/schema"
)

// Mode selects how undeclared parameters are treated.
type Mode int

const (
	// Lenient ignores undeclared parameters.
	Lenient Mode = iota
	// Strict rejects any undeclared parameter.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// Outcome is the result of validating raw parameters against a schema.
type Outcome struct {
	params query.Params
	reason string
	valid  bool
}

// Valid creates a successful outcome.
func Valid(p query.Params) Outcome {
	return Outcome{params: p, valid: true}
}

// Invalid creates a rejected outcome with a human-readable reason.
func Invalid(reason string) Outcome {
	return Outcome{reason: reason}
}

// IsValid reports whether validation passed.
func (o Outcome) IsValid() bool { return o.valid }

// Params returns the accepted parameters, restricted to declared fields.
func (o Outcome) Params() query.Params { return o.params }

// Reason returns the rejection reason.
func (o Outcome) Reason() string { return o.reason }

// Err returns nil for a valid outcome, otherwise an error wrapping domain.ErrValidationRejected.
func (o Outcome) Err() error {
	if o.valid {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrValidationRejected, o.reason)
}

// Validate checks params against s. It never mutates params.
//
// Undeclared parameters are checked first (strict mode only), then declared
// fields in schema order, so the reported reason is deterministic.
// In lenient mode undeclared parameters are dropped from the accepted set.
func Validate(params query.Params, s schema.Schema, mode Mode) Outcome {
	if mode == Strict {
		for _, k := range params.Keys() {
			if _, ok := s.Lookup(k); !ok {
				return Invalid(fmt.Sprintf("unexpected field %q", k))
			}
		}
	}

	accepted := make(query.Params, len(params))
	for _, f := range s.Fields() {
		v, ok := params.Lookup(f.Name())
		if !ok {
			if f.IsRequired() {
				return Invalid(requiredReason(f.Name()))
			}
			continue
		}

		if f.Kind() != schema.Nested {
			if v.IsObject() {
				return Invalid(shapeReason(f, f.Name()))
			}
			if reason := checkScalar(f, f.Name(), v.String()); reason != "" {
				return Invalid(reason)
			}
			accepted[f.Name()] = v
			continue
		}

		members, reason := checkObject(f, v, mode)
		if reason != "" {
			return Invalid(reason)
		}
		accepted[f.Name()] = query.Object(members)
	}
	return Valid(accepted)
}

func checkObject(f schema.Field, v query.Value, mode Mode) (map[string]string, string) {
	if !v.IsObject() {
		return nil, shapeReason(f, f.Name())
	}
	nested := f.Nested()

	if mode == Strict {
		for _, m := range v.Members() {
			if _, ok := nested.Lookup(m); !ok {
				return nil, fmt.Sprintf("unexpected field %q", f.Name()+"."+m)
			}
		}
	}

	members := make(map[string]string)
	for _, nf := range nested.Fields() {
		path := f.Name() + "." + nf.Name()
		s, ok := v.Member(nf.Name())
		if nf.Kind() == schema.Nested {
			// Parameters carry a single level of nesting; deeper members cannot be supplied.
			if ok {
				return nil, shapeReason(nf, path)
			}
			if nf.IsRequired() {
				return nil, requiredReason(path)
			}
			continue
		}
		if !ok {
			if nf.IsRequired() {
				return nil, requiredReason(path)
			}
			continue
		}
		if reason := checkScalar(nf, path, s); reason != "" {
			return nil, reason
		}
		members[nf.Name()] = s
	}
	return members, ""
}

func checkScalar(f schema.Field, path, s string) string {
	blank := strings.TrimSpace(s) == ""
	if blank {
		if f.IsRequired() {
			return requiredReason(path)
		}
		return ""
	}
	if f.Kind() == schema.Number && !isNumber(s) {
		return shapeReason(f, path)
	}
	return ""
}

func isNumber(s string) bool {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && !math.IsNaN(n) && !math.IsInf(n, 0)
}

func requiredReason(path string) string {
	return fmt.Sprintf("field %q is required", path)
}

func shapeReason(f schema.Field, path string) string {
	switch f.Kind() {
	case schema.Number:
		return fmt.Sprintf("field %q must be a number", path)
	case schema.Nested:
		return fmt.Sprintf("field %q must be an object", path)
	default:
		return fmt.Sprintf("field %q must be a string", path)
	}
}
