package profile

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/profilesearch/internal/domain/predicate"
	"github.com/kailas-cloud/profilesearch/internal/domain/schema"
)

// minPrefixLen is the shortest TAG prefix the engine expands (MINPREFIX default).
const minPrefixLen = 2

// buildQuery compiles a predicate into an FT.SEARCH query string.
// Clauses the engine cannot run are dropped; the caller post-filters.
func buildQuery(p predicate.Predicate, infix bool) string {
	if p.IsAll() {
		return "*"
	}

	clauses := make([]string, 0, len(p.Rules()))
	for _, rule := range p.Constraints() {
		field, ok := hashFieldFor[rule.Target()]
		if !ok {
			continue
		}
		switch rule.Kind() {
		case predicate.Exact:
			n := strconv.FormatFloat(rule.Number(), 'f', -1, 64)
			clauses = append(clauses, fmt.Sprintf("@%s:[%s %s]", field, n, n))
		case predicate.TextPartial:
			if c, ok := textClause(field, rule, infix); ok {
				clauses = append(clauses, c)
			}
		}
	}

	if len(clauses) == 0 {
		return "*"
	}
	return strings.Join(clauses, " ")
}

func textClause(field string, rule predicate.Rule, infix bool) (string, bool) {
	escaped := tagEscaper.Replace(rule.Pattern())
	switch rule.Style() {
	case schema.Equal:
		return fmt.Sprintf("@%s:{%s}", field, escaped), true
	case schema.Prefix:
		if utf8.RuneCountInString(rule.Pattern()) < minPrefixLen {
			return "", false
		}
		return fmt.Sprintf("@%s:{%s*}", field, escaped), true
	default:
		if !infix || utf8.RuneCountInString(rule.Pattern()) < minPrefixLen {
			return "", false
		}
		return fmt.Sprintf("@%s:{*%s*}", field, escaped), true
	}
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"?", "\\?",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	"`", "\\`",
	" ", "\\ ",
)
