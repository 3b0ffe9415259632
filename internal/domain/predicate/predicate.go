package predicate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/profilesearch/internal/domain/schema"
)

// RuleKind distinguishes the rule shapes a predicate is built from.
type RuleKind int

const (
	// MatchAny accepts any value, including a missing one.
	MatchAny RuleKind = iota
	// TextPartial is a case-insensitive prefix, substring or whole-value match.
	TextPartial
	// Exact is numeric equality.
	Exact
)

func (k RuleKind) String() string {
	switch k {
	case TextPartial:
		return "text"
	case Exact:
		return "exact"
	default:
		return "any"
	}
}

// Record is anything a predicate can be evaluated against.
type Record interface {
	Text(path string) (string, bool)
	Number(path string) (float64, bool)
}

// Rule constrains a single record path.
type Rule struct {
	target  string
	kind    RuleKind
	style   schema.Style
	pattern string
	number  float64
	re      *regexp.Regexp
}

func matchAny(target string) Rule {
	return Rule{target: target, kind: MatchAny}
}

func textRule(target, value string, style schema.Style) Rule {
	pattern := strings.ToLower(value)
	literal := regexp.QuoteMeta(pattern)
	var expr string
	switch style {
	case schema.Prefix:
		expr = "(?i)^" + literal
	case schema.Equal:
		expr = "(?i)^" + literal + "$"
	default:
		expr = "(?i)" + literal
	}
	return Rule{
		target:  target,
		kind:    TextPartial,
		style:   style,
		pattern: pattern,
		re:      regexp.MustCompile(expr),
	}
}

func exactRule(target string, n float64) Rule {
	return Rule{target: target, kind: Exact, number: n}
}

// Target returns the record path.
func (r Rule) Target() string { return r.target }

// Kind returns the rule kind.
func (r Rule) Kind() RuleKind { return r.kind }

// Style returns the text match style of a TextPartial rule.
func (r Rule) Style() schema.Style { return r.style }

// Pattern returns the lower-cased literal text of a TextPartial rule. It is never escaped.
func (r Rule) Pattern() string { return r.pattern }

// Number returns the operand of an Exact rule.
func (r Rule) Number() float64 { return r.number }

// Constrains reports whether the rule can exclude records.
func (r Rule) Constrains() bool { return r.kind != MatchAny }

// Matches evaluates the rule against a record.
func (r Rule) Matches(rec Record) bool {
	switch r.kind {
	case TextPartial:
		v, ok := rec.Text(r.target)
		return ok && r.re.MatchString(v)
	case Exact:
		n, ok := rec.Number(r.target)
		return ok && n == r.number
	default:
		return true
	}
}

func (r Rule) String() string {
	switch r.kind {
	case TextPartial:
		return fmt.Sprintf("%s %s %q", r.target, r.style, r.pattern)
	case Exact:
		return fmt.Sprintf("%s = %g", r.target, r.number)
	default:
		return r.target + " any"
	}
}

// Predicate is a conjunction of rules.
type Predicate struct {
	rules []Rule
	all   bool
}

// All returns the explicit unconstrained predicate used by list-all.
func All() Predicate {
	return Predicate{all: true}
}

// IsAll reports whether p was built by All.
func (p Predicate) IsAll() bool { return p.all }

// Rules returns all rules, MatchAny included.
func (p Predicate) Rules() []Rule {
	cp := make([]Rule, len(p.rules))
	copy(cp, p.rules)
	return cp
}

// Constraints returns only the rules that can exclude records.
func (p Predicate) Constraints() []Rule {
	out := make([]Rule, 0, len(p.rules))
	for _, r := range p.rules {
		if r.Constrains() {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether rec satisfies every rule.
func (p Predicate) Matches(rec Record) bool {
	for _, r := range p.rules {
		if !r.Matches(rec) {
			return false
		}
	}
	return true
}

func (p Predicate) String() string {
	if p.all {
		return "all"
	}
	parts := make([]string, 0, len(p.rules))
	for _, r := range p.Constraints() {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " AND ")
}
