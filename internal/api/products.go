package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise-core/internal/catalog"
)

// handleGetProduct returns a single product by its parent ASIN.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := s.products.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeNotFound(w, "product not found: "+productID)
			return
		}
		s.logger.Error("get product failed", "product_id", productID, "error", err)
		writeInternalError(w, "failed to retrieve product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// handleProductsByCategory returns all products in a category.
// An empty category is reported as not-found, matching the lookup-by-ID
// behaviour.
func (s *Server) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := s.products.ListByCategory(r.Context(), category)
	if err != nil {
		s.logger.Error("list products failed", "category", category, "error", err)
		writeInternalError(w, "failed to retrieve products")
		return
	}

	if len(products) == 0 {
		writeNotFound(w, "no products found in category: "+category)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"count":    len(products),
	})
}
