// Package favorites maintains the per-user favorite lists of catalog
// entity ids.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tunescout/internal/store"
)

// ErrValidation signals malformed or missing input.
var ErrValidation = errors.New("invalid input")

// Lists holds the three favorite sets of one user.
type Lists struct {
	Artists []string `json:"artists"`
	Albums  []string `json:"albums"`
	Tracks  []string `json:"tracks"`
}

// Store describes the persistence operations required by the favorites
// service. The toggle must be atomic at the store layer.
type Store interface {
	ToggleFavorite(ctx context.Context, userID, list, entityID string) (bool, error)
	FavoriteList(ctx context.Context, userID, list string) ([]string, error)
	UserByID(ctx context.Context, id string) (*store.User, error)
}

// Service exposes favorite-toggling workflows.
type Service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) *Service {
	return &Service{store: store}
}

// Toggle flips membership of entityID in the named list and reports whether
// the entity is a favorite afterwards. Toggling the same id twice restores
// the original state. Entity ids are not resolved against the catalog; ids
// reach this path from catalog browse responses.
func (s *Service) Toggle(ctx context.Context, userID, list, entityID string) (bool, error) {
	if strings.TrimSpace(entityID) == "" {
		return false, fmt.Errorf("%w: entity id cannot be empty", ErrValidation)
	}

	return s.store.ToggleFavorite(ctx, userID, list, entityID)
}

// ListFor returns a single favorite set of a user. Unknown list names
// surface the store's sentinel.
func (s *Service) ListFor(ctx context.Context, userID, list string) ([]string, error) {
	entities, err := s.store.FavoriteList(ctx, userID, list)
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []string{}
	}
	return entities, nil
}

// ListsFor returns all three favorite sets of a user.
func (s *Service) ListsFor(ctx context.Context, userID string) (*Lists, error) {
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Lists{
		Artists: u.FavoriteArtists,
		Albums:  u.FavoriteAlbums,
		Tracks:  u.FavoriteTracks,
	}, nil
}
