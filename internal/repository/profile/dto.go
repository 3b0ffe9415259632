package profile

import (
	"strconv"

	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
)

// Hash field names. Dots are not allowed in TAG names, so name.first becomes name_first.
const (
	fieldUsrName          = "usr_name"
	fieldFirst            = "name_first"
	fieldLast             = "name_last"
	fieldCountry          = "country"
	fieldFavoriteExercise = "favorite_exercise"
	fieldAge              = "age"
)

// recordFields are the hash fields parseHashFields reads.
var recordFields = []string{
	fieldUsrName, fieldFirst, fieldLast, fieldCountry, fieldFavoriteExercise, fieldAge,
}

// hashFieldFor maps a record path to its hash field.
var hashFieldFor = map[string]string{
	domprofile.PathUsrName:          fieldUsrName,
	domprofile.PathFirstName:        fieldFirst,
	domprofile.PathLastName:         fieldLast,
	domprofile.PathCountry:          fieldCountry,
	domprofile.PathFavoriteExercise: fieldFavoriteExercise,
	domprofile.PathAge:              fieldAge,
}

// buildHashFields converts a profile into a flat map for HSET. Unset optional fields are omitted.
func buildHashFields(p *domprofile.Profile) map[string]string {
	m := map[string]string{
		fieldUsrName: p.UsrName(),
		fieldFirst:   p.First(),
		fieldLast:    p.Last(),
	}
	if v := p.Country(); v != "" {
		m[fieldCountry] = v
	}
	if v := p.FavoriteExercise(); v != "" {
		m[fieldFavoriteExercise] = v
	}
	if age := p.Age(); age != nil {
		m[fieldAge] = strconv.Itoa(*age)
	}
	return m
}

// parseHashFields converts a hash back into a profile. A malformed age is treated as unset.
func parseHashFields(id string, m map[string]string) domprofile.Profile {
	a := domprofile.Attributes{
		UsrName:          m[fieldUsrName],
		First:            m[fieldFirst],
		Last:             m[fieldLast],
		Country:          m[fieldCountry],
		FavoriteExercise: m[fieldFavoriteExercise],
	}
	if raw, ok := m[fieldAge]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			a.Age = &n
		}
	}
	return domprofile.Reconstruct(id, a)
}
