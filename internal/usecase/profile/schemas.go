package profile

import (
	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
	"github.com/kailas-cloud/profilesearch/internal/domain/schema"
)

// Operation names, used as log and metric labels.
const (
	OpListAll       = "list_all"
	OpFindByID      = "find_by_id"
	OpFindByName    = "find_by_name"
	OpFindByCountry = "find_by_country"
	OpFind          = "find"
	OpAvailable     = "available"
	OpRegister      = "register"
)

// Query parameter names.
const (
	ParamUsrName          = "usrName"
	ParamFirst            = "first"
	ParamLast             = "last"
	ParamName             = "name"
	ParamCountry          = "country"
	ParamFavoriteExercise = "favoriteExercise"
	ParamAge              = "age"
)

// findByNameSchema: both names anchored at the start, strict.
var findByNameSchema = schema.MustNew(
	schema.TextField(ParamFirst, domprofile.PathFirstName, schema.Prefix),
	schema.TextField(ParamLast, domprofile.PathLastName, schema.Prefix),
)

var findByCountrySchema = schema.MustNew(
	schema.TextField(ParamCountry, domprofile.PathCountry, schema.Prefix),
)

var nameSchema = schema.MustNew(
	schema.TextField(ParamFirst, domprofile.PathFirstName, schema.Prefix),
	schema.TextField(ParamLast, domprofile.PathLastName, schema.Prefix),
)

// findSchema accepts names either flat (first, last) or nested (name[first]).
var findSchema = schema.MustNew(
	schema.TextField(ParamUsrName, domprofile.PathUsrName, schema.Prefix),
	schema.TextField(ParamFirst, domprofile.PathFirstName, schema.Prefix),
	schema.TextField(ParamLast, domprofile.PathLastName, schema.Prefix),
	schema.NestedField(ParamName, nameSchema),
	schema.TextField(ParamCountry, domprofile.PathCountry, schema.Prefix),
	schema.TextField(ParamFavoriteExercise, domprofile.PathFavoriteExercise, schema.Substring),
	schema.NumberField(ParamAge, domprofile.PathAge),
)

var availableSchema = schema.MustNew(
	schema.TextField(ParamUsrName, domprofile.PathUsrName, schema.Equal).Required(),
)

var registerSchema = schema.MustNew(
	schema.TextField(ParamUsrName, domprofile.PathUsrName, schema.Equal).Required(),
	schema.NestedField(ParamName, schema.MustNew(
		schema.TextField(ParamFirst, domprofile.PathFirstName, schema.Equal).Required(),
		schema.TextField(ParamLast, domprofile.PathLastName, schema.Equal).Required(),
	)).Required(),
	schema.TextField(ParamCountry, domprofile.PathCountry, schema.Equal),
	schema.TextField(ParamFavoriteExercise, domprofile.PathFavoriteExercise, schema.Equal),
	schema.NumberField(ParamAge, domprofile.PathAge),
)
