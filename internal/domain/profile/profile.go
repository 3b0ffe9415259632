package profile

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Record paths addressable by predicates.
const (
	PathUsrName          = "usr_name"
	PathFirstName        = "name.first"
	PathLastName         = "name.last"
	PathCountry          = "country"
	PathFavoriteExercise = "favorite_exercise"
	PathAge              = "age"
)

const (
	maxUsrNameLength = 64
	maxTextLength    = 128
	maxAge           = 150
)

var usrNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Attributes are the caller-supplied profile fields.
type Attributes struct {
	UsrName          string
	First            string
	Last             string
	Country          string
	FavoriteExercise string
	Age              *int
}

// Profile is the user profile aggregate (immutable value object).
type Profile struct {
	id               string
	usrName          string
	first            string
	last             string
	country          string
	favoriteExercise string
	age              *int
}

// New validates and creates a Profile.
// usrName: ^[a-zA-Z0-9_.-]+$, 1-64 chars. First and last names are required.
func New(id string, a Attributes) (Profile, error) {
	if id == "" {
		return Profile{}, fmt.Errorf("profile ID is required")
	}
	if a.UsrName == "" {
		return Profile{}, fmt.Errorf("usrName is required")
	}
	if len(a.UsrName) > maxUsrNameLength {
		return Profile{}, fmt.Errorf("usrName too long (max %d)", maxUsrNameLength)
	}
	if !usrNameRegex.MatchString(a.UsrName) {
		return Profile{}, fmt.Errorf("usrName must be alphanumeric with dots, underscores and hyphens")
	}
	first := strings.TrimSpace(a.First)
	last := strings.TrimSpace(a.Last)
	if first == "" || last == "" {
		return Profile{}, fmt.Errorf("first and last name are required")
	}
	for label, v := range map[string]string{
		"name.first": first, "name.last": last,
		"country": a.Country, "favoriteExercise": a.FavoriteExercise,
	} {
		if utf8.RuneCountInString(v) > maxTextLength {
			return Profile{}, fmt.Errorf("%s too long (max %d)", label, maxTextLength)
		}
	}
	if a.Age != nil && (*a.Age < 0 || *a.Age > maxAge) {
		return Profile{}, fmt.Errorf("age must be between 0 and %d", maxAge)
	}

	return Profile{
		id:               id,
		usrName:          a.UsrName,
		first:            first,
		last:             last,
		country:          strings.TrimSpace(a.Country),
		favoriteExercise: strings.TrimSpace(a.FavoriteExercise),
		age:              cloneInt(a.Age),
	}, nil
}

// Reconstruct creates a Profile without validation (storage hydration).
func Reconstruct(id string, a Attributes) Profile {
	return Profile{
		id:               id,
		usrName:          a.UsrName,
		first:            a.First,
		last:             a.Last,
		country:          a.Country,
		favoriteExercise: a.FavoriteExercise,
		age:              cloneInt(a.Age),
	}
}

// ID returns the profile identifier.
func (p *Profile) ID() string { return p.id }

// UsrName returns the unique user name.
func (p *Profile) UsrName() string { return p.usrName }

// First returns the first name.
func (p *Profile) First() string { return p.first }

// Last returns the last name.
func (p *Profile) Last() string { return p.last }

// Country returns the country, empty when unset.
func (p *Profile) Country() string { return p.country }

// FavoriteExercise returns the favorite exercise, empty when unset.
func (p *Profile) FavoriteExercise() string { return p.favoriteExercise }

// Age returns the age, nil when unset.
func (p *Profile) Age() *int { return cloneInt(p.age) }

// Attributes returns a copy of the profile fields.
func (p *Profile) Attributes() Attributes {
	return Attributes{
		UsrName:          p.usrName,
		First:            p.first,
		Last:             p.last,
		Country:          p.country,
		FavoriteExercise: p.favoriteExercise,
		Age:              cloneInt(p.age),
	}
}

// Text returns the text value at a record path. Unset optional fields are absent.
func (p *Profile) Text(path string) (string, bool) {
	var v string
	switch path {
	case PathUsrName:
		v = p.usrName
	case PathFirstName:
		v = p.first
	case PathLastName:
		v = p.last
	case PathCountry:
		v = p.country
	case PathFavoriteExercise:
		v = p.favoriteExercise
	default:
		return "", false
	}
	return v, v != ""
}

// Number returns the numeric value at a record path.
func (p *Profile) Number(path string) (float64, bool) {
	if path != PathAge || p.age == nil {
		return 0, false
	}
	return float64(*p.age), true
}

// UsrNameKey is the case-folded form used by uniqueness constraints.
func UsrNameKey(usrName string) string {
	return strings.ToLower(usrName)
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
