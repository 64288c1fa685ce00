package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

const defaultSearchLimit = 20

func (s *Server) handleSearchArtists(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing search query"})
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 50"})
			return
		}
		limit = parsed
	}

	artists, err := s.catalog.SearchArtists(r.Context(), query, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.catalog.GetArtist(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleGetArtistAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.catalog.GetArtistAlbums(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.catalog.GetAlbum(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleGetAlbumTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.catalog.GetAlbumTracks(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	track, err := s.catalog.GetTrack(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, track)
}
