package httpapi

import (
	"encoding/json"
	"net/http"

	"tunescout/internal/app/users"
)

type signupRequest struct {
	Name                 string `json:"name"`
	Surname              string `json:"surname"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if _, err := s.users.Register(r.Context(), req.Name, req.Surname, req.Email, req.Password, req.PasswordConfirmation); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authedUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := s.users.Retrieve(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authedUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch users.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.users.Update(r.Context(), userID, patch); err != nil {
		writeError(w, err)
		return
	}

	profile, err := s.users.Retrieve(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type deleteAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authedUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req deleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.users.Delete(r.Context(), userID, req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
