package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/shelfwise/shelfwise-core/internal/profile"
)

// profileResponse is the response body for GET /users/profile.
type profileResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// handleProfile returns the contact profile for the authenticated
// principal. The account is read back from the store so the username in
// the response is current even for old tokens.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())

	user, err := s.users.GetByID(r.Context(), principal.Subject)
	if err != nil {
		s.logger.Error("profile user lookup failed", "user_id", principal.Subject, "error", err)
		writeNotFound(w, "user not found")
		return
	}

	p, err := s.profiles.GetByUserID(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			writeNotFound(w, "profile not found")
			return
		}
		s.logger.Error("profile lookup failed", "user_id", user.ID, "error", err)
		writeInternalError(w, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
}
