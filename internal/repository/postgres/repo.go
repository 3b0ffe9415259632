// Package postgres stores profiles in a PostgreSQL table via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/predicate"
	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
)

const (
	defaultMaxResults = 100
	uniqueViolation   = "23505"
)

// querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repo implements usecase/profile.Store.
type Repo struct {
	db         querier
	maxResults int
}

// New creates a postgres profile repository.
func New(db querier) *Repo {
	return &Repo{db: db, maxResults: defaultMaxResults}
}

// WithMaxResults bounds the number of rows returned per search.
func (r *Repo) WithMaxResults(n int) *Repo {
	if n > 0 {
		r.maxResults = n
	}
	return r
}

// Find returns matching profiles, oldest first.
func (r *Repo) Find(ctx context.Context, p predicate.Predicate) ([]domprofile.Profile, error) {
	where, args, err := buildWhere(p)
	if err != nil {
		return nil, err
	}
	args = append(args, r.maxResults)
	q := fmt.Sprintf(`SELECT %s FROM profiles%s ORDER BY created_at, id LIMIT $%d`,
		selectColumns, where, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	out := make([]domprofile.Profile, 0)
	for rows.Next() {
		rec, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return out, nil
}

// FindByID returns domain.ErrNotFound when no row has the id.
func (r *Repo) FindByID(ctx context.Context, id string) (domprofile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domprofile.Profile{}, domain.ErrNotFound
	}
	return p, err
}

// ExistsWhere reports whether any row matches p.
func (r *Repo) ExistsWhere(ctx context.Context, p predicate.Predicate) (bool, error) {
	where, args, err := buildWhere(p)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles`+where+`)`, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	return exists, nil
}

// Insert adds a profile. A unique index violation maps to domain.ErrAlreadyExists.
func (r *Repo) Insert(ctx context.Context, p domprofile.Profile) (domprofile.Profile, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (id, usr_name, name_first, name_last, country, favorite_exercise, age)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID(), p.UsrName(), p.First(), p.Last(),
		nullIfEmpty(p.Country()), nullIfEmpty(p.FavoriteExercise()), p.Age(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domprofile.Profile{}, fmt.Errorf("usrName %q: %w", p.UsrName(), domain.ErrAlreadyExists)
		}
		return domprofile.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (domprofile.Profile, error) {
	var (
		id, usrName, first, last string
		country, exercise        *string
		age                      *int
	)
	if err := row.Scan(&id, &usrName, &first, &last, &country, &exercise, &age); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domprofile.Profile{}, err
		}
		return domprofile.Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	return domprofile.Reconstruct(id, domprofile.Attributes{
		UsrName:          usrName,
		First:            first,
		Last:             last,
		Country:          deref(country),
		FavoriteExercise: deref(exercise),
		Age:              age,
	}), nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
