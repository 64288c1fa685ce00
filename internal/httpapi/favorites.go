package httpapi

import "net/http"

type toggleFavoriteResponse struct {
	Favorite bool `json:"favorite"`
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authedUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	favorite, err := s.favorites.Toggle(r.Context(), userID, r.PathValue("list"), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleFavoriteResponse{Favorite: favorite})
}

func (s *Server) handleListFavoriteSet(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authedUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	entities, err := s.favorites.ListFor(r.Context(), userID, r.PathValue("list"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entities)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authedUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	lists, err := s.favorites.ListsFor(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lists)
}
