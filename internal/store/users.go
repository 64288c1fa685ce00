package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User is a stored account record. PasswordHash never leaves the backend.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Surname         string    `json:"surname"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FavoriteArtists []string  `json:"favoriteArtists"`
	FavoriteAlbums  []string  `json:"favoriteAlbums"`
	FavoriteTracks  []string  `json:"favoriteTracks"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UserPatch holds the updatable profile fields. Nil fields are left
// untouched.
type UserPatch struct {
	Name    *string
	Surname *string
	Email   *string
}

// favoriteColumns whitelists list names against their columns. Only values
// from this map may be interpolated into SQL.
var favoriteColumns = map[string]string{
	"artists": "favorite_artists",
	"albums":  "favorite_albums",
	"tracks":  "favorite_tracks",
}

// CreateUser persists a new account and returns its store-assigned id.
func (s *Store) CreateUser(ctx context.Context, name, surname, email, passwordHash string) (string, error) {
	id := uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, surname, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, name, surname, email, passwordHash, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

// UserByID loads a full user record including favorite lists.
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	return s.userBy(ctx, "id", id)
}

// UserByEmail loads a full user record by its unique email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.userBy(ctx, "email", email)
}

func (s *Store) userBy(ctx context.Context, column, value string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, surname, email, password_hash, favorite_artists, favorite_albums, favorite_tracks, created_at
		FROM users
		WHERE `+column+` = $1
	`, value).Scan(
		&u.ID, &u.Name, &u.Surname, &u.Email, &u.PasswordHash,
		pq.Array(&u.FavoriteArtists), pq.Array(&u.FavoriteAlbums), pq.Array(&u.FavoriteTracks),
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &u, nil
}

// UpdateUser merges the non-nil patch fields into the stored record.
func (s *Store) UpdateUser(ctx context.Context, id string, patch UserPatch) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = COALESCE($2, name),
		    surname = COALESCE($3, surname),
		    email = COALESCE($4, email)
		WHERE id = $1
	`, id, patch.Name, patch.Surname, patch.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser removes the account record. Comments authored by the user are
// kept; they reference the user without owning it.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ToggleFavorite flips membership of entityID in one of the user's favorite
// lists and reports whether the entity is a favorite afterwards. The flip is
// a single conditional UPDATE, so concurrent toggles on the same list cannot
// lose updates.
func (s *Store) ToggleFavorite(ctx context.Context, userID, list, entityID string) (bool, error) {
	column, ok := favoriteColumns[list]
	if !ok {
		return false, ErrUnknownFavoriteList
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %[1]s = CASE
			WHEN $2 = ANY(%[1]s) THEN array_remove(%[1]s, $2)
			ELSE array_append(%[1]s, $2)
		END
		WHERE id = $1
		RETURNING $2 = ANY(%[1]s)
	`, column)

	var favorite bool
	if err := s.db.QueryRowContext(ctx, query, userID, entityID).Scan(&favorite); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	return favorite, nil
}

// FavoriteList returns one of the user's favorite lists.
func (s *Store) FavoriteList(ctx context.Context, userID, list string) ([]string, error) {
	column, ok := favoriteColumns[list]
	if !ok {
		return nil, ErrUnknownFavoriteList
	}

	var entries []string
	err := s.db.QueryRowContext(ctx, `
		SELECT `+column+`
		FROM users
		WHERE id = $1
	`, userID).Scan(pq.Array(&entries))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	return entries, nil
}
