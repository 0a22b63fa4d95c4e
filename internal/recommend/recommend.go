// Package recommend serves per-user product recommendation lists.
//
// The lists are produced by an offline training pipeline and stored as
// opaque JSON arrays of product IDs — this package only decodes them on
// the way out. One row per user, plus one row per (user, category) pair
// for category-scoped recommendations.
package recommend

import "errors"

// Recommendation is a user's full ranked product list.
type Recommendation struct {
	UserID   string   `json:"user_id"`
	Products []string `json:"products"`
}

// CategoryRecommendation is a user's ranked list within one category.
type CategoryRecommendation struct {
	UserID   string   `json:"user_id"`
	Category string   `json:"category"`
	Products []string `json:"products"`
}

// ErrNoRecommendation indicates no stored list for the requested key.
var ErrNoRecommendation = errors.New("no recommendation found")
