package httpapi

import (
	"encoding/json"
	"net/http"

	"tunescout/internal/store"
)

type addCommentRequest struct {
	Text string `json:"text"`
}

type addCommentResponse struct {
	ID string `json:"id"`
}

// addCommentHandler builds a handler bound to one target kind so the same
// code serves the artist, album and track comment routes.
func (s *Server) addCommentHandler(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.authedUserID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req addCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		id, err := s.comments.Add(r.Context(), userID, r.PathValue("id"), kind, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, addCommentResponse{ID: id})
	}
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	list, err := s.comments.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if list == nil {
		list = []store.Comment{}
	}
	writeJSON(w, http.StatusOK, list)
}
