package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avanderwijk/lotkeeper/internal/model"
)

// RealizedGainRepository provides data access methods for the realized_gain table.
type RealizedGainRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewRealizedGainRepository creates a new RealizedGainRepository with the provided database connection.
func NewRealizedGainRepository(db *sql.DB) *RealizedGainRepository {
	return &RealizedGainRepository{db: db}
}

// WithTx returns a new RealizedGainRepository scoped to the provided transaction.
func (r *RealizedGainRepository) WithTx(tx *sql.Tx) *RealizedGainRepository {
	return &RealizedGainRepository{db: r.db, tx: tx}
}

func (r *RealizedGainRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertBatch persists the realized gains of one settlement, one row per lot
// consumed. Must run inside the same transaction as the sell insert.
func (r *RealizedGainRepository) InsertBatch(ctx context.Context, gains []model.RealizedGain) error {
	query := `
		INSERT INTO realized_gain (id, owner, transaction_id, tax_lot_id, asset_id,
			quantity_sold, cost_basis, proceeds, gain_loss, holding_days, is_long_term, sale_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, g := range gains {
		_, err := r.getQuerier().ExecContext(ctx, query,
			g.ID,
			g.Owner,
			g.TransactionID,
			g.TaxLotID,
			g.AssetID,
			g.QuantitySold,
			g.CostBasis,
			g.Proceeds,
			g.GainLoss,
			g.HoldingDays,
			g.IsLongTerm,
			g.SaleDate.Format("2006-01-02"),
		)
		if err != nil {
			return fmt.Errorf("failed to insert realized gain: %w", err)
		}
	}

	return nil
}

// ListByTransaction retrieves all realized gains emitted by one sell
// transaction, in emission order.
func (r *RealizedGainRepository) ListByTransaction(owner, transactionID string) ([]model.RealizedGain, error) {
	query := `
		SELECT id, owner, transaction_id, tax_lot_id, asset_id, quantity_sold,
			cost_basis, proceeds, gain_loss, holding_days, is_long_term, sale_date, created_at
		FROM realized_gain
		WHERE owner = ? AND transaction_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.getQuerier().Query(query, owner, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query realized_gain table: %w", err)
	}
	defer rows.Close()

	return scanGains(rows)
}

// ListSellTransactionIDsByLot returns the distinct sell transaction IDs whose
// gains reference the given lot. A non-empty result blocks buy reversal.
func (r *RealizedGainRepository) ListSellTransactionIDsByLot(lotID string) ([]string, error) {
	query := `
		SELECT DISTINCT transaction_id
		FROM realized_gain
		WHERE tax_lot_id = ?
		ORDER BY transaction_id ASC
	`

	rows, err := r.getQuerier().Query(query, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query realized_gain table: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan realized_gain table results: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realized_gain table: %w", err)
	}

	return ids, nil
}

// ListByYear retrieves all realized gains of an owner whose sale date falls in
// the given calendar year, enriched with asset data.
func (r *RealizedGainRepository) ListByYear(owner string, year int) ([]model.RealizedGainResponse, error) {
	query := `
		SELECT g.id, g.transaction_id, g.tax_lot_id, a.symbol, a.asset_class,
			g.quantity_sold, g.cost_basis, g.proceeds, g.gain_loss, g.holding_days,
			g.is_long_term, g.sale_date
		FROM realized_gain g
		JOIN asset a ON g.asset_id = a.id
		WHERE g.owner = ? AND g.sale_date >= ? AND g.sale_date <= ?
		ORDER BY g.sale_date ASC, g.created_at ASC
	`

	startDate := fmt.Sprintf("%04d-01-01", year)
	endDate := fmt.Sprintf("%04d-12-31", year)

	rows, err := r.getQuerier().Query(query, owner, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query realized_gain table: %w", err)
	}
	defer rows.Close()

	gains := []model.RealizedGainResponse{}
	for rows.Next() {
		var g model.RealizedGainResponse
		var saleDateStr string

		err := rows.Scan(
			&g.ID,
			&g.TransactionID,
			&g.TaxLotID,
			&g.Symbol,
			&g.AssetClass,
			&g.QuantitySold,
			&g.CostBasis,
			&g.Proceeds,
			&g.GainLoss,
			&g.HoldingDays,
			&g.IsLongTerm,
			&saleDateStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan realized_gain table results: %w", err)
		}

		g.SaleDate, err = ParseTime(saleDateStr)
		if err != nil || g.SaleDate.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		gains = append(gains, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realized_gain table: %w", err)
	}

	return gains, nil
}

// DeleteByTransaction removes all realized gains emitted by one sell
// transaction. Part of sell reversal; runs inside the reversal transaction.
func (r *RealizedGainRepository) DeleteByTransaction(ctx context.Context, owner, transactionID string) error {
	query := `DELETE FROM realized_gain WHERE owner = ? AND transaction_id = ?`

	if _, err := r.getQuerier().ExecContext(ctx, query, owner, transactionID); err != nil {
		return fmt.Errorf("failed to delete realized gains: %w", err)
	}

	return nil
}

func scanGains(rows *sql.Rows) ([]model.RealizedGain, error) {
	gains := []model.RealizedGain{}
	for rows.Next() {
		var g model.RealizedGain
		var saleDateStr, createdAtStr string

		err := rows.Scan(
			&g.ID,
			&g.Owner,
			&g.TransactionID,
			&g.TaxLotID,
			&g.AssetID,
			&g.QuantitySold,
			&g.CostBasis,
			&g.Proceeds,
			&g.GainLoss,
			&g.HoldingDays,
			&g.IsLongTerm,
			&saleDateStr,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan realized_gain table results: %w", err)
		}

		g.SaleDate, err = ParseTime(saleDateStr)
		if err != nil || g.SaleDate.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		g.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil || g.CreatedAt.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		gains = append(gains, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realized_gain table: %w", err)
	}

	return gains, nil
}
