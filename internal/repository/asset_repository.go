package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/model"
)

// AssetRepository provides data access methods for the asset table.
type AssetRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// WithTx returns a new AssetRepository scoped to the provided transaction.
func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{db: r.db, tx: tx}
}

func (r *AssetRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetBySymbol retrieves an asset by its (symbol, assetClass) pair.
// Returns ErrAssetNotFound if no such asset exists.
func (r *AssetRepository) GetBySymbol(symbol, assetClass string) (model.Asset, error) {
	query := `
		SELECT id, symbol, asset_class, created_at
		FROM asset
		WHERE symbol = ? AND asset_class = ?
	`

	return r.scanAsset(r.getQuerier().QueryRow(query, symbol, assetClass))
}

// GetByID retrieves an asset by its ID.
// Returns ErrAssetNotFound if no such asset exists.
func (r *AssetRepository) GetByID(id string) (model.Asset, error) {
	query := `
		SELECT id, symbol, asset_class, created_at
		FROM asset
		WHERE id = ?
	`

	return r.scanAsset(r.getQuerier().QueryRow(query, id))
}

func (r *AssetRepository) scanAsset(row *sql.Row) (model.Asset, error) {
	var a model.Asset
	var createdAtStr sql.NullString

	err := row.Scan(&a.ID, &a.Symbol, &a.AssetClass, &createdAtStr)
	if err == sql.ErrNoRows {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to scan asset table results: %w", err)
	}

	if createdAtStr.Valid {
		a.CreatedAt, err = ParseTime(createdAtStr.String)
		if err != nil {
			return model.Asset{}, err
		}
	}

	return a, nil
}

// Insert creates a new asset row. Returns ErrDuplicateEntry if an asset with
// the same (symbol, assetClass) already exists.
func (r *AssetRepository) Insert(ctx context.Context, asset *model.Asset) error {
	query := `
		INSERT INTO asset (id, symbol, asset_class)
		VALUES (?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query, asset.ID, asset.Symbol, asset.AssetClass)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert asset: %w", err)
	}

	return nil
}

// List retrieves all known assets ordered by symbol.
func (r *AssetRepository) List() ([]model.Asset, error) {
	query := `
		SELECT id, symbol, asset_class, created_at
		FROM asset
		ORDER BY symbol ASC
	`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	assets := []model.Asset{}
	for rows.Next() {
		var a model.Asset
		var createdAtStr sql.NullString

		if err := rows.Scan(&a.ID, &a.Symbol, &a.AssetClass, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan asset table results: %w", err)
		}

		if createdAtStr.Valid {
			a.CreatedAt, err = ParseTime(createdAtStr.String)
			if err != nil {
				return nil, err
			}
		}

		assets = append(assets, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset table: %w", err)
	}

	return assets, nil
}
