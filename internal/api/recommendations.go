package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise-core/internal/recommend"
)

// handleUserRecommendations returns the full ranked product list for a
// user. The user must exist; a user with no stored list is reported
// separately from an unknown user.
func (s *Server) handleUserRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	exists, err := s.users.ExistsByID(r.Context(), userID)
	if err != nil {
		s.logger.Error("user existence check failed", "user_id", userID, "error", err)
		writeInternalError(w, "failed to retrieve recommendations")
		return
	}
	if !exists {
		writeNotFound(w, "user not found: "+userID)
		return
	}

	rec, err := s.recs.GetForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, recommend.ErrNoRecommendation) {
			writeNotFound(w, "no recommendations found for user: "+userID)
			return
		}
		s.logger.Error("recommendation lookup failed", "user_id", userID, "error", err)
		writeInternalError(w, "failed to retrieve recommendations")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// handleCategoryRecommendations returns a user's ranked list scoped to
// one category.
func (s *Server) handleCategoryRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	category := chi.URLParam(r, "category")

	exists, err := s.users.ExistsByID(r.Context(), userID)
	if err != nil {
		s.logger.Error("user existence check failed", "user_id", userID, "error", err)
		writeInternalError(w, "failed to retrieve recommendations")
		return
	}
	if !exists {
		writeNotFound(w, "user not found: "+userID)
		return
	}

	rec, err := s.recs.GetForUserCategory(r.Context(), userID, category)
	if err != nil {
		if errors.Is(err, recommend.ErrNoRecommendation) {
			writeNotFound(w, "no recommendations found for user "+userID+" in category: "+category)
			return
		}
		s.logger.Error("category recommendation lookup failed",
			"user_id", userID, "category", category, "error", err)
		writeInternalError(w, "failed to retrieve recommendations")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}
