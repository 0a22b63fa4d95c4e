package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise-core/internal/audit"
	"github.com/shelfwise/shelfwise-core/internal/auth"
	"github.com/shelfwise/shelfwise-core/internal/catalog"
)

// createProductRequest is the request body for POST /admin/products.
type createProductRequest struct {
	ParentAsin    string   `json:"parent_asin"`
	Title         string   `json:"title"`
	Price         *float64 `json:"price"`
	AverageRating *float64 `json:"average_rating"`
	RatingNumber  *int     `json:"rating_number"`
	Category      string   `json:"category"`
}

// updateRoleRequest is the request body for PUT /admin/users/{userID}/role.
type updateRoleRequest struct {
	Role string `json:"role"`
}

// handleCreateProduct adds a new product to the catalog.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.ParentAsin == "" || req.Title == "" || req.Category == "" {
		writeBadRequest(w, "parent_asin, title, and category are required")
		return
	}

	product := &catalog.Product{
		ParentAsin:    req.ParentAsin,
		Title:         req.Title,
		Price:         req.Price,
		AverageRating: req.AverageRating,
		RatingNumber:  req.RatingNumber,
		Category:      req.Category,
	}

	if err := s.products.Create(r.Context(), product); err != nil {
		if errors.Is(err, catalog.ErrProductExists) {
			writeConflict(w, "product already exists: "+req.ParentAsin)
			return
		}
		s.logger.Error("create product failed", "product_id", req.ParentAsin, "error", err)
		writeInternalError(w, "failed to create product")
		return
	}

	principal := principalFromContext(r.Context())
	s.logger.Info("product created", "product_id", product.ParentAsin, "by", principal.Subject)
	s.auditLog(r.Context(), "create", "product", product.ParentAsin, principal.Subject, map[string]any{
		"title":    product.Title,
		"category": product.Category,
	})

	writeJSON(w, http.StatusCreated, product)
}

// handleUpdateProduct applies a partial update to an existing product.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var update catalog.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	product, err := s.products.Update(r.Context(), productID, update)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeNotFound(w, "product not found: "+productID)
			return
		}
		s.logger.Error("update product failed", "product_id", productID, "error", err)
		writeInternalError(w, "failed to update product")
		return
	}

	principal := principalFromContext(r.Context())
	s.logger.Info("product updated", "product_id", productID, "by", principal.Subject)
	s.auditLog(r.Context(), "update", "product", productID, principal.Subject, nil)

	writeJSON(w, http.StatusOK, product)
}

// handleUpdateUserRole changes a user's role. Tokens already issued keep
// their embedded role until they are re-issued at the next login.
func (s *Server) handleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	role := auth.Role(req.Role)
	if !auth.IsValidRole(role) {
		writeBadRequest(w, "role must be one of: standard, admin")
		return
	}

	if err := s.users.UpdateRole(r.Context(), userID, role); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found: "+userID)
			return
		}
		s.logger.Error("role update failed", "user_id", userID, "error", err)
		writeInternalError(w, "failed to update role")
		return
	}

	principal := principalFromContext(r.Context())
	s.logger.Info("user role updated", "user_id", userID, "role", req.Role, "by", principal.Subject)
	s.auditLog(r.Context(), "role_change", "user", userID, principal.Subject, map[string]any{
		"new_role": req.Role,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"role":    req.Role,
	})
}

// handleAuditLogs returns audit entries matching the query filters.
func (s *Server) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "limit must be an integer")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "offset must be an integer")
			return
		}
		filter.Offset = n
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("audit query failed", "error", err)
		writeInternalError(w, "failed to query audit logs")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
