package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id                TEXT PRIMARY KEY,
		usr_name          TEXT NOT NULL,
		name_first        TEXT NOT NULL,
		name_last         TEXT NOT NULL,
		country           TEXT,
		favorite_exercise TEXT,
		age               INTEGER,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// usrName uniqueness is enforced here and nowhere else.
	`CREATE UNIQUE INDEX IF NOT EXISTS profiles_usr_name_lower_idx ON profiles (lower(usr_name))`,
	`CREATE INDEX IF NOT EXISTS profiles_created_at_idx ON profiles (created_at, id)`,
}

// Migrate creates the profiles table and its indexes. It is idempotent.
func Migrate(ctx context.Context, db querier) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
