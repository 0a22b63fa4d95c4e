// Package catalog provides access to the product catalog.
//
// Products are keyed by their parent ASIN (the identifier the upstream
// review dataset uses) and carry denormalised rating aggregates computed
// by the offline pipeline.
package catalog

import (
	"errors"
	"time"
)

// Product is a single catalog entry.
type Product struct {
	ParentAsin    string   `json:"parent_asin"`
	Title         string   `json:"title"`
	Price         *float64 `json:"price,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	RatingNumber  *int     `json:"rating_number,omitempty"`
	Category      string   `json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductUpdate carries a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Title         *string  `json:"title,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	RatingNumber  *int     `json:"rating_number,omitempty"`
	Category      *string  `json:"category,omitempty"`
}

// Sentinel errors for catalog operations.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
)
