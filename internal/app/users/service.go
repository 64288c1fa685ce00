// Package users implements account registration, authentication, and
// profile management.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tunescout/internal/store"
)

var (
	// ErrValidation signals malformed or missing input.
	ErrValidation = errors.New("invalid input")
	// ErrPasswordMismatch signals password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidCredentials indicates a failed password check.
	ErrInvalidCredentials = errors.New("wrong credentials")
)

// bcryptCost matches the work factor the accounts were originally hashed
// with. Changing it only affects newly stored hashes.
const bcryptCost = 10

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, name, surname, email, passwordHash string) (string, error)
	UserByID(ctx context.Context, id string) (*store.User, error)
	UserByEmail(ctx context.Context, email string) (*store.User, error)
	UpdateUser(ctx context.Context, id string, patch store.UserPatch) error
	DeleteUser(ctx context.Context, id string) error
}

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Profile is the user projection returned to callers. It never carries the
// password hash.
type Profile struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Surname         string   `json:"surname"`
	Email           string   `json:"email"`
	FavoriteArtists []string `json:"favoriteArtists"`
	FavoriteAlbums  []string `json:"favoriteAlbums"`
	FavoriteTracks  []string `json:"favoriteTracks"`
}

// Patch holds the updatable profile fields. Nil fields are left untouched.
type Patch struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
}

// Service exposes identity and session workflows.
type Service struct {
	store  Store
	tokens TokenIssuer
}

// New wires a Service backed by the provided Store and token issuer.
func New(store Store, tokens TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates a new account and returns its id. The email must be
// unique; the password is stored only as a bcrypt hash.
func (s *Service) Register(ctx context.Context, name, surname, email, password, passwordConfirmation string) (string, error) {
	for _, f := range []struct {
		name, value string
	}{
		{"name", name},
		{"surname", surname},
		{"email", email},
		{"password", password},
		{"password confirmation", passwordConfirmation},
	} {
		if strings.TrimSpace(f.value) == "" {
			return "", fmt.Errorf("%w: %s cannot be empty", ErrValidation, f.name)
		}
	}

	if password != passwordConfirmation {
		return "", ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	// Uniqueness is enforced by the store's index rather than a lookup
	// first, so two concurrent registrations cannot both succeed.
	id, err := s.store.CreateUser(ctx, strings.TrimSpace(name), strings.TrimSpace(surname), strings.TrimSpace(email), string(hash))
	if err != nil {
		return "", err
	}

	return id, nil
}

// Authenticate verifies credentials and returns the account id. An unknown
// email surfaces store.ErrUserNotFound; a failed hash comparison surfaces
// ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("%w: email cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: password cannot be empty", ErrValidation)
	}

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return u.ID, nil
}

// Login authenticates and mints a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	userID, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(userID)
}

// Retrieve returns the sanitized profile for a user id.
func (s *Service) Retrieve(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:              u.ID,
		Name:            u.Name,
		Surname:         u.Surname,
		Email:           u.Email,
		FavoriteArtists: u.FavoriteArtists,
		FavoriteAlbums:  u.FavoriteAlbums,
		FavoriteTracks:  u.FavoriteTracks,
	}, nil
}

// Update merges the non-nil patch fields into the profile. Provided fields
// must be non-empty after trimming.
func (s *Service) Update(ctx context.Context, userID string, patch Patch) error {
	stored := store.UserPatch{}

	trim := func(field string, src *string) (*string, error) {
		if src == nil {
			return nil, nil
		}
		trimmed := strings.TrimSpace(*src)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: %s cannot be empty", ErrValidation, field)
		}
		return &trimmed, nil
	}

	var err error
	if stored.Name, err = trim("name", patch.Name); err != nil {
		return err
	}
	if stored.Surname, err = trim("surname", patch.Surname); err != nil {
		return err
	}
	if stored.Email, err = trim("email", patch.Email); err != nil {
		return err
	}

	return s.store.UpdateUser(ctx, userID, stored)
}

// Delete removes the account after re-verifying its credentials. A session
// token alone never authorizes deletion, and the credentials must belong to
// the account being deleted.
func (s *Service) Delete(ctx context.Context, userID, email, password string) error {
	owner, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrInvalidCredentials
	}

	return s.store.DeleteUser(ctx, userID)
}
