package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shelfwise/shelfwise-core/internal/auth"
)

// registerRequest is the request body for POST /users/register.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerResponse is the response body for POST /users/register.
type registerResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// loginRequest is the request body for POST /users/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /users/login.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// handleRegister creates a new standard-role account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}
	if !auth.IsValidUsername(req.Username) {
		writeBadRequest(w, "username must be 1-64 characters: letters, digits, dots, hyphens, underscores")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			writeConflict(w, "username already exists")
			return
		}
		s.logger.Error("register failed", "error", err)
		writeInternalError(w, "failed to register user")
		return
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	s.auditLog(r.Context(), "register", "user", user.ID, user.ID, map[string]any{
		"username": user.Username,
	})

	writeJSON(w, http.StatusCreated, registerResponse{
		UserID:   user.ID,
		Username: user.Username,
	})
}

// handleLogin verifies credentials and issues an access token.
//
// All credential failures share one generic message — the response for an
// unknown username is byte-identical to the one for a wrong password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	user, token, err := s.authenticator.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeUnauthorized(w, "invalid username or password")
			return
		}
		s.logger.Error("login failed", "error", err)
		writeInternalError(w, "failed to log in")
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	s.auditLog(r.Context(), "login", "user", user.ID, user.ID, nil)

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.authenticator.TokenTTL().Seconds()),
		UserID:      user.ID,
		Username:    user.Username,
	})
}
