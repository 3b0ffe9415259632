package postgres

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/profilesearch/internal/domain/predicate"
	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
	"github.com/kailas-cloud/profilesearch/internal/domain/schema"
)

const selectColumns = `id, usr_name, name_first, name_last, country, favorite_exercise, age`

var columnFor = map[string]string{
	domprofile.PathUsrName:          "usr_name",
	domprofile.PathFirstName:        "name_first",
	domprofile.PathLastName:         "name_last",
	domprofile.PathCountry:          "country",
	domprofile.PathFavoriteExercise: "favorite_exercise",
	domprofile.PathAge:              "age",
}

// buildWhere compiles a predicate into a WHERE clause with positional args.
// An unconstrained predicate yields an empty clause.
func buildWhere(p predicate.Predicate) (string, []any, error) {
	if p.IsAll() {
		return "", nil, nil
	}

	var conds []string
	var args []any
	for _, rule := range p.Constraints() {
		col, ok := columnFor[rule.Target()]
		if !ok {
			return "", nil, fmt.Errorf("no column for %q", rule.Target())
		}
		n := len(args) + 1

		switch rule.Kind() {
		case predicate.Exact:
			conds = append(conds, fmt.Sprintf("%s::float8 = $%d", col, n))
			args = append(args, rule.Number())
		case predicate.TextPartial:
			switch rule.Style() {
			case schema.Equal:
				conds = append(conds, fmt.Sprintf("lower(%s) = lower($%d)", col, n))
				args = append(args, rule.Pattern())
			case schema.Prefix:
				conds = append(conds, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, col, n))
				args = append(args, escapeLike(rule.Pattern())+"%")
			default:
				conds = append(conds, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, col, n))
				args = append(args, "%"+escapeLike(rule.Pattern())+"%")
			}
		}
	}

	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s a literal LIKE pattern under ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
