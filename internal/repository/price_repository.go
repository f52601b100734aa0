package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/avanderwijk/lotkeeper/internal/model"
)

// PriceRepository provides data access methods for the asset_price cache table.
type PriceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// WithTx returns a new PriceRepository scoped to the provided transaction.
func (r *PriceRepository) WithTx(tx *sql.Tx) *PriceRepository {
	return &PriceRepository{db: r.db, tx: tx}
}

func (r *PriceRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Upsert stores or replaces the cached price for an asset.
func (r *PriceRepository) Upsert(ctx context.Context, p *model.AssetPrice) error {
	query := `
		INSERT INTO asset_price (id, asset_id, symbol, price, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(asset_id) DO UPDATE SET
			price = excluded.price,
			fetched_at = excluded.fetched_at
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.AssetID,
		p.Symbol,
		p.Price,
		p.FetchedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert asset price: %w", err)
	}

	return nil
}

// GetBySymbols retrieves cached prices for the given symbols, keyed by symbol.
// Symbols without a cached price are simply absent from the result.
func (r *PriceRepository) GetBySymbols(symbols []string) (map[string]model.AssetPrice, error) {
	if len(symbols) == 0 {
		return make(map[string]model.AssetPrice), nil
	}

	placeholders := make([]string, len(symbols))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	query := `
		SELECT id, asset_id, symbol, price, fetched_at
		FROM asset_price
		WHERE symbol IN (` + strings.Join(placeholders, ",") + `)
	`

	args := make([]any, len(symbols))
	for i, s := range symbols {
		args[i] = s
	}

	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset_price table: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]model.AssetPrice)
	for rows.Next() {
		var p model.AssetPrice
		var fetchedAtStr string

		if err := rows.Scan(&p.ID, &p.AssetID, &p.Symbol, &p.Price, &fetchedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan asset_price table results: %w", err)
		}

		p.FetchedAt, err = ParseTime(fetchedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		prices[p.Symbol] = p
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset_price table: %w", err)
	}

	return prices, nil
}
