package main

import (
	"database/sql"
	"net/http"

	"tunescout/internal/app/comments"
	"tunescout/internal/app/favorites"
	"tunescout/internal/app/users"
	"tunescout/internal/auth"
	"tunescout/internal/catalog"
	"tunescout/internal/http/middleware"
	"tunescout/internal/httpapi"
	"tunescout/internal/store"
)

func newHTTPHandler(cfg Config, db *sql.DB) http.Handler {
	dataStore := store.New(db)
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.SessionTTL)
	spotify := catalog.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret)

	userSvc := users.New(dataStore, tokens)
	favoritesSvc := favorites.New(dataStore)
	commentsSvc := comments.New(dataStore, spotify)

	handler := httpapi.New(userSvc, favoritesSvc, commentsSvc, spotify, tokens).Routes()

	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return handler
}
