package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise-core/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Account endpoints (no auth required)
		r.Post("/users/register", s.handleRegister)
		r.Post("/users/login", s.handleLogin)

		// Authenticated routes (any role)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/users/profile", s.handleProfile)

			r.Route("/products", func(r chi.Router) {
				r.Get("/{productID}", s.handleGetProduct)
				r.Get("/category/{category}", s.handleProductsByCategory)
			})

			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/{userID}", s.handleUserRecommendations)
				r.Get("/{userID}/{category}", s.handleCategoryRecommendations)
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireRole(auth.RoleAdmin))

			r.Post("/products", s.handleCreateProduct)
			r.Put("/products/{productID}", s.handleUpdateProduct)
			r.Put("/users/{userID}/role", s.handleUpdateUserRole)
			r.Get("/audit", s.handleAuditLogs)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
