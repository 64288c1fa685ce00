// Package store provides Postgres persistence for user accounts, their
// favorite lists, and comments.
package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrEmailTaken signals the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound indicates a lookup for an absent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnknownFavoriteList indicates a favorite list name outside
	// artists, albums, or tracks.
	ErrUnknownFavoriteList = errors.New("unknown favorite list")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
