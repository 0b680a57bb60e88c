package httpapi

import (
	"net/http"

	"taskplanner/internal/apperr"
)

type credentials struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type authRequest struct {
	User credentials `json:"user"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type updateUserRequest struct {
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, _, err := s.auth.Signup(r.Context(), req.User.Email, req.User.Password, req.User.PasswordConfirmation)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, _, err := s.auth.Login(r.Context(), req.User.Email, req.User.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.CurrentUser(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ownUserID resolves {id} and checks it names the caller.
func ownUserID(r *http.Request) (uint, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return 0, apperr.NotFound("user")
	}
	if id != currentUserID(r) {
		return 0, apperr.Permission("You can only change your own account")
	}
	return id, nil
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := ownUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := s.auth.UpdateEmail(r.Context(), id, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := ownUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.auth.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, err := ownUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updatePasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.auth.UpdatePassword(r.Context(), id, req.CurrentPassword, req.Password, req.PasswordConfirmation); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
