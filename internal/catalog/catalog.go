// Package catalog is a read-only client for the external music catalog.
// Entity ids are opaque and owned by the catalog service.
package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is the sentinel matched when the catalog cannot resolve an
// entity id. The concrete error keeps the catalog's own message so callers
// can surface it unchanged.
var ErrNotFound = errors.New("catalog entity not found")

// NotFoundError carries the catalog's human-readable failure message.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrNotFound) match any resolution failure.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Image is artwork attached to an artist or album.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist is a catalog artist.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Images     []Image  `json:"images"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

// Album is a catalog album.
type Album struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Artist      string  `json:"artist"`
	ArtistID    string  `json:"artistId,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	TotalTracks int     `json:"totalTracks,omitempty"`
	Images      []Image `json:"images"`
}

// Track is a catalog track.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ArtistID    string `json:"artistId,omitempty"`
	Album       string `json:"album,omitempty"`
	AlbumID     string `json:"albumId,omitempty"`
	DurationMS  int    `json:"durationMs"`
	TrackNumber int    `json:"trackNumber,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
}

// Client describes the catalog lookups the application depends on.
type Client interface {
	SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error)
	GetArtist(ctx context.Context, artistID string) (*Artist, error)
	GetArtistAlbums(ctx context.Context, artistID string) ([]Album, error)
	GetAlbum(ctx context.Context, albumID string) (*Album, error)
	GetAlbumTracks(ctx context.Context, albumID string) ([]Track, error)
	GetTrack(ctx context.Context, trackID string) (*Track, error)
}
