package predicate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/query"
	"github.com/kailas-cloud/profilesearch/internal/domain/schema"
)

type lookupFunc func(name string) (query.Value, bool)

// Compile turns validated params into a Predicate.
//
// Empty params, or params whose values are all blank, yield domain.ErrEmptyQuery:
// an unconstrained predicate is only ever produced by All.
func Compile(params query.Params, s schema.Schema) (Predicate, error) {
	if params.IsEmpty() {
		return Predicate{}, domain.ErrEmptyQuery
	}

	rules, err := compileFields(params.Lookup, s, "")
	if err != nil {
		return Predicate{}, err
	}

	p := Predicate{rules: rules}
	if len(p.Constraints()) == 0 {
		return Predicate{}, domain.ErrEmptyQuery
	}
	return p, nil
}

func compileFields(lookup lookupFunc, s schema.Schema, prefix string) ([]Rule, error) {
	var rules []Rule
	for _, f := range s.Fields() {
		path := prefix + f.Name()
		v, ok := lookup(f.Name())

		switch f.Kind() {
		case schema.Text:
			if ok && v.IsObject() {
				return nil, rejectf("field %q must be a string", path)
			}
			text := strings.TrimSpace(v.String())
			if !ok || text == "" {
				rules = append(rules, matchAny(f.Target()))
				continue
			}
			rules = append(rules, textRule(f.Target(), text, f.Style()))

		case schema.Number:
			if !ok || (!v.IsObject() && strings.TrimSpace(v.String()) == "") {
				continue
			}
			if v.IsObject() {
				return nil, rejectf("field %q must be a number", path)
			}
			n, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return nil, rejectf("field %q must be a number", path)
			}
			rules = append(rules, exactRule(f.Target(), n))

		case schema.Nested:
			if ok && !v.IsObject() {
				return nil, rejectf("field %q must be an object", path)
			}
			nested, err := compileFields(memberLookup(v, ok), f.Nested(), path+".")
			if err != nil {
				return nil, err
			}
			rules = append(rules, nested...)
		}
	}
	return rules, nil
}

func memberLookup(v query.Value, present bool) lookupFunc {
	return func(name string) (query.Value, bool) {
		if !present {
			return query.Value{}, false
		}
		s, ok := v.Member(name)
		if !ok {
			return query.Value{}, false
		}
		return query.Scalar(s), true
	}
}

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidationRejected, fmt.Sprintf(format, args...))
}
