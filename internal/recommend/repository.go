package recommend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Repository defines the interface for recommendation persistence.
type Repository interface {
	GetForUser(ctx context.Context, userID string) (*Recommendation, error)
	GetForUserCategory(ctx context.Context, userID, category string) (*CategoryRecommendation, error)
	Put(ctx context.Context, userID string, products []string) error
	PutCategory(ctx context.Context, userID, category string, products []string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed recommendation repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetForUser returns the stored full recommendation list for a user.
func (r *SQLiteRepository) GetForUser(ctx context.Context, userID string) (*Recommendation, error) {
	var blob string
	err := r.db.QueryRowContext(ctx,
		"SELECT product_list FROM recommendations WHERE user_id = ?", userID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecommendation
	}
	if err != nil {
		return nil, fmt.Errorf("querying recommendation: %w", err)
	}

	products, err := decodeProductList(blob)
	if err != nil {
		return nil, err
	}

	return &Recommendation{UserID: userID, Products: products}, nil
}

// GetForUserCategory returns the stored category-scoped list for a user.
func (r *SQLiteRepository) GetForUserCategory(ctx context.Context, userID, category string) (*CategoryRecommendation, error) {
	var blob string
	err := r.db.QueryRowContext(ctx,
		"SELECT product_list FROM category_recommendations WHERE user_id = ? AND category = ?",
		userID, category).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecommendation
	}
	if err != nil {
		return nil, fmt.Errorf("querying category recommendation: %w", err)
	}

	products, err := decodeProductList(blob)
	if err != nil {
		return nil, err
	}

	return &CategoryRecommendation{UserID: userID, Category: category, Products: products}, nil
}

// Put stores (or replaces) a user's full recommendation list. Used by the
// pipeline import path and tests.
func (r *SQLiteRepository) Put(ctx context.Context, userID string, products []string) error {
	blob, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encoding product list: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO recommendations (user_id, product_list) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET product_list = excluded.product_list`,
		userID, string(blob),
	)
	if err != nil {
		return fmt.Errorf("storing recommendation: %w", err)
	}
	return nil
}

// PutCategory stores (or replaces) a user's category-scoped list.
func (r *SQLiteRepository) PutCategory(ctx context.Context, userID, category string, products []string) error {
	blob, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encoding product list: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO category_recommendations (user_id, category, product_list) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, category) DO UPDATE SET product_list = excluded.product_list`,
		userID, category, string(blob),
	)
	if err != nil {
		return fmt.Errorf("storing category recommendation: %w", err)
	}
	return nil
}

// decodeProductList parses the stored JSON blob. A corrupt blob is an
// unexpected fault, not a not-found.
func decodeProductList(blob string) ([]string, error) {
	var products []string
	if err := json.Unmarshal([]byte(blob), &products); err != nil {
		return nil, fmt.Errorf("parsing product list: %w", err)
	}
	if products == nil {
		products = []string{}
	}
	return products, nil
}
