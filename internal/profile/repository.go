// Package profile stores optional contact details for accounts.
//
// Profiles are populated out-of-band (import pipeline or a future
// settings UI) and keyed 1:1 by user ID — an account without a profile
// row is a normal state, reported as not-found.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Profile is the contact record attached to an account.
type Profile struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrProfileNotFound indicates the account has no profile row.
var ErrProfileNotFound = errors.New("profile not found")

// Repository defines the interface for profile persistence.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed profile repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByUserID retrieves the profile for an account.
func (r *SQLiteRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	var email, firstName, lastName, phone sql.NullString
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, email, first_name, last_name, phone, created_at, updated_at FROM profiles WHERE user_id = ?",
		userID,
	).Scan(&p.UserID, &email, &firstName, &lastName, &phone, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("scanning profile: %w", err)
	}

	if email.Valid {
		p.Email = email.String
	}
	if firstName.Valid {
		p.FirstName = firstName.String
	}
	if lastName.Valid {
		p.LastName = lastName.String
	}
	if phone.Valid {
		p.Phone = phone.String
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &p, nil
}

// Upsert inserts or replaces the profile for an account.
func (r *SQLiteRepository) Upsert(ctx context.Context, p *Profile) error {
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, email, first_name, last_name, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			phone = excluded.phone,
			updated_at = excluded.updated_at`,
		p.UserID, nullString(p.Email), nullString(p.FirstName),
		nullString(p.LastName), nullString(p.Phone), now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

// nullString returns a NULL for empty strings.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
