// Package comments attaches free-text comments to catalog entities.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tunescout/internal/catalog"
	"tunescout/internal/store"
)

// ErrValidation signals malformed or missing input.
var ErrValidation = errors.New("invalid input")

// Store describes the persistence operations required by the comment
// service.
type Store interface {
	CreateComment(ctx context.Context, userID, targetID, targetKind, text string) (string, error)
	CommentsByTarget(ctx context.Context, targetID string) ([]store.Comment, error)
}

// Resolver checks that a target exists on the external catalog. Only the
// lookups needed for comment validation are required.
type Resolver interface {
	GetArtist(ctx context.Context, artistID string) (*catalog.Artist, error)
	GetAlbum(ctx context.Context, albumID string) (*catalog.Album, error)
	GetTrack(ctx context.Context, trackID string) (*catalog.Track, error)
}

// Service validates and persists comments.
type Service struct {
	store   Store
	catalog Resolver
}

// New wires a Service backed by the provided Store and catalog resolver.
func New(store Store, catalog Resolver) *Service {
	return &Service{store: store, catalog: catalog}
}

// Add resolves the target on the catalog and, only on success, persists a
// comment with a server-assigned timestamp. A failed resolution carries the
// catalog's own message so callers can tell a missing entity from an
// internal fault. Returns the new comment id.
func (s *Service) Add(ctx context.Context, userID, targetID, targetKind, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(targetID) == "" {
		return "", fmt.Errorf("%w: target id cannot be empty", ErrValidation)
	}

	if err := s.resolve(ctx, targetID, targetKind); err != nil {
		return "", err
	}

	return s.store.CreateComment(ctx, userID, targetID, targetKind, text)
}

// List returns all comments for a target in creation order.
func (s *Service) List(ctx context.Context, targetID string) ([]store.Comment, error) {
	return s.store.CommentsByTarget(ctx, targetID)
}

func (s *Service) resolve(ctx context.Context, targetID, targetKind string) error {
	var err error
	switch targetKind {
	case "artist":
		_, err = s.catalog.GetArtist(ctx, targetID)
	case "album":
		_, err = s.catalog.GetAlbum(ctx, targetID)
	case "track":
		_, err = s.catalog.GetTrack(ctx, targetID)
	default:
		return fmt.Errorf("%w: unknown target kind %q", ErrValidation, targetKind)
	}
	return err
}
