package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/model"
)

// SettingRepository provides data access methods for the system_setting table.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get retrieves a system setting by key.
// Returns ErrSettingNotFound if the key does not exist.
func (r *SettingRepository) Get(key string) (model.SystemSetting, error) {
	query := `
		SELECT id, "key", value, encrypted, updated_at
		FROM system_setting
		WHERE "key" = ?
	`

	var s model.SystemSetting
	var updatedAtStr sql.NullString

	err := r.db.QueryRow(query, key).Scan(&s.ID, &s.Key, &s.Value, &s.Encrypted, &updatedAtStr)
	if err == sql.ErrNoRows {
		return model.SystemSetting{}, apperrors.ErrSettingNotFound
	}
	if err != nil {
		return model.SystemSetting{}, fmt.Errorf("failed to scan system_setting table results: %w", err)
	}

	if updatedAtStr.Valid {
		s.UpdatedAt, err = ParseTime(updatedAtStr.String)
		if err != nil {
			return model.SystemSetting{}, err
		}
	}

	return s, nil
}

// Upsert stores or replaces a system setting by key.
func (r *SettingRepository) Upsert(ctx context.Context, s *model.SystemSetting) error {
	query := `
		INSERT INTO system_setting (id, "key", value, encrypted, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT("key") DO UPDATE SET
			value = excluded.value,
			encrypted = excluded.encrypted,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Key,
		s.Value,
		s.Encrypted,
		s.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert system setting: %w", err)
	}

	return nil
}
