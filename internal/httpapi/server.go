// Package httpapi wires HTTP handlers to the underlying services and maps
// service errors onto status codes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tunescout/internal/app/comments"
	"tunescout/internal/app/favorites"
	"tunescout/internal/app/users"
	"tunescout/internal/auth"
	"tunescout/internal/catalog"
	"tunescout/internal/store"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, name, surname, email, password, passwordConfirmation string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Retrieve(ctx context.Context, userID string) (*users.Profile, error)
	Update(ctx context.Context, userID string, patch users.Patch) error
	Delete(ctx context.Context, userID, email, password string) error
}

// FavoritesService coordinates favorite-toggling workflows.
type FavoritesService interface {
	Toggle(ctx context.Context, userID, list, entityID string) (bool, error)
	ListFor(ctx context.Context, userID, list string) ([]string, error)
	ListsFor(ctx context.Context, userID string) (*favorites.Lists, error)
}

// CommentService validates and lists comments.
type CommentService interface {
	Add(ctx context.Context, userID, targetID, targetKind, text string) (string, error)
	List(ctx context.Context, targetID string) ([]store.Comment, error)
}

// TokenVerifier checks a session token and returns the acting user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	favorites FavoritesService
	comments  CommentService
	catalog   catalog.Client
	tokens    TokenVerifier
}

// New configures a Server with the given services.
func New(users UserService, favorites FavoritesService, comments CommentService, cat catalog.Client, tokens TokenVerifier) *Server {
	return &Server{
		users:     users,
		favorites: favorites,
		comments:  comments,
		catalog:   cat,
		tokens:    tokens,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/v1/users/me", s.handleProfile)
	mux.HandleFunc("PATCH /api/v1/users/me", s.handleUpdateProfile)
	mux.HandleFunc("DELETE /api/v1/users/me", s.handleDeleteAccount)

	mux.HandleFunc("GET /api/v1/artists", s.handleSearchArtists)
	mux.HandleFunc("GET /api/v1/artists/{id}", s.handleGetArtist)
	mux.HandleFunc("GET /api/v1/artists/{id}/albums", s.handleGetArtistAlbums)
	mux.HandleFunc("GET /api/v1/albums/{id}", s.handleGetAlbum)
	mux.HandleFunc("GET /api/v1/albums/{id}/tracks", s.handleGetAlbumTracks)
	mux.HandleFunc("GET /api/v1/tracks/{id}", s.handleGetTrack)

	mux.HandleFunc("POST /api/v1/me/favorites/{list}/{id}", s.handleToggleFavorite)
	mux.HandleFunc("GET /api/v1/me/favorites", s.handleListFavorites)
	mux.HandleFunc("GET /api/v1/me/favorites/{list}", s.handleListFavoriteSet)

	mux.HandleFunc("POST /api/v1/artists/{id}/comments", s.addCommentHandler("artist"))
	mux.HandleFunc("GET /api/v1/artists/{id}/comments", s.handleListComments)
	mux.HandleFunc("POST /api/v1/albums/{id}/comments", s.addCommentHandler("album"))
	mux.HandleFunc("GET /api/v1/albums/{id}/comments", s.handleListComments)
	mux.HandleFunc("POST /api/v1/tracks/{id}/comments", s.addCommentHandler("track"))
	mux.HandleFunc("GET /api/v1/tracks/{id}/comments", s.handleListComments)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps service errors onto HTTP status codes. Timeouts get
// 504 so callers know a retry with backoff is reasonable.
func statusForError(err error) int {
	switch {
	case errors.Is(err, users.ErrValidation),
		errors.Is(err, favorites.ErrValidation),
		errors.Is(err, comments.ErrValidation),
		errors.Is(err, store.ErrUnknownFavoriteList):
		return http.StatusBadRequest
	case errors.Is(err, users.ErrPasswordMismatch),
		errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, users.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// authedUserID verifies the bearer token and returns the acting user id.
func (s *Server) authedUserID(r *http.Request) (string, error) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", auth.ErrInvalidToken
	}
	return s.tokens.Verify(token)
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
