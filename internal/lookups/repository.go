package lookups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository encapsulates config entry persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a lookups repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ErrEntryNotFound is returned when no row exists for the requested key.
var ErrEntryNotFound = errors.New("config entry not found")

// Get returns the raw JSON value stored under key.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	err := r.db.WithContext(ctx).
		Raw(`SELECT value FROM config_entries WHERE key = ?`, key).
		Scan(&value).Error
	if err != nil {
		return "", fmt.Errorf("reading config entry %q: %w", key, err)
	}
	if !value.Valid {
		return "", ErrEntryNotFound
	}
	return value.String, nil
}

// Upsert stores the raw JSON value under key, replacing any prior value.
func (r *Repository) Upsert(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).Exec(`
INSERT INTO config_entries (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET
	value = excluded.value,
	updated_at = excluded.updated_at`,
		key, value, time.Now().UTC()).Error
	if err != nil {
		return fmt.Errorf("upserting config entry %q: %w", key, err)
	}
	return nil
}
