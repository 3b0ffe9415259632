package profile

import "github.com/kailas-cloud/profilesearch/internal/db"

// tagSeparator never occurs in indexed values after escaping; whole values stay one tag.
const tagSeparator = "|"

func buildIndex(name, prefix string) (*db.IndexDefinition, error) {
	sep := db.Separator(tagSeparator)
	return db.NewIndex(name, prefix).
		Tag(fieldUsrName, sep).
		Tag(fieldFirst, sep).
		Tag(fieldLast, sep).
		Tag(fieldCountry, sep).
		Tag(fieldFavoriteExercise, sep).
		Numeric(fieldAge).
		Build()
}
