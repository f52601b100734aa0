package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/model"
)

// TaxLotRepository provides data access methods for the tax_lot table.
// FIFO ordering is a property of (purchase_date, seq); seq is assigned at
// insert so same-day lots resolve deterministically on every store engine.
type TaxLotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTaxLotRepository creates a new TaxLotRepository with the provided database connection.
func NewTaxLotRepository(db *sql.DB) *TaxLotRepository {
	return &TaxLotRepository{db: db}
}

// WithTx returns a new TaxLotRepository scoped to the provided transaction.
func (r *TaxLotRepository) WithTx(tx *sql.Tx) *TaxLotRepository {
	return &TaxLotRepository{db: r.db, tx: tx}
}

func (r *TaxLotRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Insert persists a new tax lot, assigning the next global insertion
// sequence number. Must run inside the same transaction as the buy insert.
func (r *TaxLotRepository) Insert(ctx context.Context, lot *model.TaxLot) error {
	query := `
		INSERT INTO tax_lot (id, owner, asset_id, transaction_id, seq, original_quantity,
			remaining_quantity, cost_basis_per_unit, purchase_date)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM tax_lot), ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		lot.ID,
		lot.Owner,
		lot.AssetID,
		lot.TransactionID,
		lot.OriginalQuantity,
		lot.RemainingQuantity,
		lot.CostBasisPerUnit,
		lot.PurchaseDate.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert tax lot: %w", err)
	}

	err = r.getQuerier().QueryRowContext(ctx, `SELECT seq FROM tax_lot WHERE id = ?`, lot.ID).Scan(&lot.Seq)
	if err != nil {
		return fmt.Errorf("failed to read tax lot sequence: %w", err)
	}

	return nil
}

// GetOpenLots retrieves all lots for (owner, asset) with remaining quantity,
// oldest purchase first, ties broken by insertion sequence. Callers that
// intend to drain lots must invoke this inside the transaction that also
// carries the writes, so concurrent sells serialize on the same rows.
func (r *TaxLotRepository) GetOpenLots(owner, assetID string) ([]model.TaxLot, error) {
	query := `
		SELECT id, owner, asset_id, transaction_id, seq, original_quantity,
			remaining_quantity, cost_basis_per_unit, purchase_date
		FROM tax_lot
		WHERE owner = ? AND asset_id = ? AND remaining_quantity > 0
		ORDER BY purchase_date ASC, seq ASC
	`

	rows, err := r.getQuerier().Query(query, owner, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax_lot table: %w", err)
	}
	defer rows.Close()

	return scanLots(rows)
}

// GetByTransactionID retrieves the lot opened by a buy transaction.
// Returns ErrTaxLotNotFound if the transaction opened no lot.
func (r *TaxLotRepository) GetByTransactionID(owner, transactionID string) (model.TaxLot, error) {
	query := `
		SELECT id, owner, asset_id, transaction_id, seq, original_quantity,
			remaining_quantity, cost_basis_per_unit, purchase_date
		FROM tax_lot
		WHERE owner = ? AND transaction_id = ?
	`

	rows, err := r.getQuerier().Query(query, owner, transactionID)
	if err != nil {
		return model.TaxLot{}, fmt.Errorf("failed to query tax_lot table: %w", err)
	}
	defer rows.Close()

	lots, err := scanLots(rows)
	if err != nil {
		return model.TaxLot{}, err
	}
	if len(lots) == 0 {
		return model.TaxLot{}, apperrors.ErrTaxLotNotFound
	}

	return lots[0], nil
}

// UpdateRemaining sets a lot's remaining quantity to an absolute value.
// Used by settlement, which computes the new remainders itself.
func (r *TaxLotRepository) UpdateRemaining(ctx context.Context, lotID string, remaining float64) error {
	query := `UPDATE tax_lot SET remaining_quantity = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, remaining, lotID)
	if err != nil {
		return fmt.Errorf("failed to update tax lot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTaxLotNotFound
	}

	return nil
}

// RestoreQuantity adds a reversed sale's quantity back onto a lot, capped at
// the original quantity to absorb floating-point drift from repeated draws.
func (r *TaxLotRepository) RestoreQuantity(ctx context.Context, lotID string, quantity float64) error {
	query := `
		UPDATE tax_lot
		SET remaining_quantity = MIN(original_quantity, remaining_quantity + ?)
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query, quantity, lotID)
	if err != nil {
		return fmt.Errorf("failed to restore tax lot quantity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTaxLotNotFound
	}

	return nil
}

// Delete removes a lot row. Only the reversal of its buy transaction may
// call this, and only while the lot is untouched.
func (r *TaxLotRepository) Delete(ctx context.Context, lotID string) error {
	query := `DELETE FROM tax_lot WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, lotID)
	if err != nil {
		return fmt.Errorf("failed to delete tax lot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTaxLotNotFound
	}

	return nil
}

// List retrieves all lots for an owner enriched with asset data, ordered by
// purchase date. Exhausted lots (remaining = 0) are excluded unless requested.
func (r *TaxLotRepository) List(owner string, includeExhausted bool) ([]model.TaxLotResponse, error) {
	query := `
		SELECT l.id, l.asset_id, a.symbol, a.asset_class, l.transaction_id,
			l.original_quantity, l.remaining_quantity, l.cost_basis_per_unit, l.purchase_date
		FROM tax_lot l
		JOIN asset a ON l.asset_id = a.id
		WHERE l.owner = ?
	`
	if !includeExhausted {
		query += ` AND l.remaining_quantity > 0`
	}
	query += ` ORDER BY l.purchase_date ASC, l.seq ASC`

	rows, err := r.getQuerier().Query(query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax_lot table: %w", err)
	}
	defer rows.Close()

	lots := []model.TaxLotResponse{}
	for rows.Next() {
		var l model.TaxLotResponse
		var purchaseDateStr string

		err := rows.Scan(
			&l.ID,
			&l.AssetID,
			&l.Symbol,
			&l.AssetClass,
			&l.TransactionID,
			&l.OriginalQuantity,
			&l.RemainingQuantity,
			&l.CostBasisPerUnit,
			&purchaseDateStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax_lot table results: %w", err)
		}

		l.PurchaseDate, err = ParseTime(purchaseDateStr)
		if err != nil || l.PurchaseDate.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		lots = append(lots, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax_lot table: %w", err)
	}

	return lots, nil
}

func scanLots(rows *sql.Rows) ([]model.TaxLot, error) {
	lots := []model.TaxLot{}
	for rows.Next() {
		var l model.TaxLot
		var purchaseDateStr string

		err := rows.Scan(
			&l.ID,
			&l.Owner,
			&l.AssetID,
			&l.TransactionID,
			&l.Seq,
			&l.OriginalQuantity,
			&l.RemainingQuantity,
			&l.CostBasisPerUnit,
			&purchaseDateStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax_lot table results: %w", err)
		}

		l.PurchaseDate, err = ParseTime(purchaseDateStr)
		if err != nil || l.PurchaseDate.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		lots = append(lots, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax_lot table: %w", err)
	}

	return lots, nil
}
