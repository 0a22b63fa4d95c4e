package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for product persistence.
type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, asin string) (*Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Update(ctx context.Context, asin string, update ProductUpdate) (*Product, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed product repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const productColumns = "parent_asin, title, price, average_rating, rating_number, category, created_at, updated_at"

// Create inserts a new product. The ASIN must be unique; a duplicate
// insert fails with ErrProductExists.
func (r *SQLiteRepository) Create(ctx context.Context, product *Product) error {
	now := time.Now().UTC().Format(time.RFC3339)
	product.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	product.UpdatedAt = product.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (parent_asin, title, price, average_rating, rating_number, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ParentAsin, product.Title, product.Price,
		product.AverageRating, product.RatingNumber, product.Category,
		now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrProductExists
		}
		return fmt.Errorf("creating product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its parent ASIN.
func (r *SQLiteRepository) GetByID(ctx context.Context, asin string) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE parent_asin = ?", asin)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByCategory returns all products in a category, best-rated first.
func (r *SQLiteRepository) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE category = ? ORDER BY average_rating DESC, parent_asin ASC",
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Update applies a partial update and returns the updated product.
// Missing products fail with ErrProductNotFound.
func (r *SQLiteRepository) Update(ctx context.Context, asin string, update ProductUpdate) (*Product, error) {
	product, err := r.GetByID(ctx, asin)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		product.Title = *update.Title
	}
	if update.Price != nil {
		product.Price = update.Price
	}
	if update.AverageRating != nil {
		product.AverageRating = update.AverageRating
	}
	if update.RatingNumber != nil {
		product.RatingNumber = update.RatingNumber
	}
	if update.Category != nil {
		product.Category = *update.Category
	}

	now := time.Now().UTC().Format(time.RFC3339)
	product.UpdatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET title = ?, price = ?, average_rating = ?, rating_number = ?, category = ?, updated_at = ?
		 WHERE parent_asin = ?`,
		product.Title, product.Price, product.AverageRating,
		product.RatingNumber, product.Category, now, asin,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	rowsAffected, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	return product, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanProduct scans a product from a row or rows cursor.
func scanProduct(s scanner) (*Product, error) {
	var p Product
	var price, avgRating sql.NullFloat64
	var ratingNumber sql.NullInt64
	var createdAt, updatedAt string

	err := s.Scan(&p.ParentAsin, &p.Title, &price, &avgRating, &ratingNumber,
		&p.Category, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}

	if price.Valid {
		p.Price = &price.Float64
	}
	if avgRating.Valid {
		p.AverageRating = &avgRating.Float64
	}
	if ratingNumber.Valid {
		n := int(ratingNumber.Int64)
		p.RatingNumber = &n
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &p, nil
}
