package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// All reads are scoped to an owner; a transaction belonging to another owner
// is indistinguishable from a missing one.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{db: r.db, tx: tx}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Insert persists a new transaction row.
func (r *TransactionRepository) Insert(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, owner, asset_id, type, quantity, price_per_unit, fees, total_amount, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.Owner,
		t.AssetID,
		t.Type,
		t.Quantity,
		t.PricePerUnit,
		t.Fees,
		t.TotalAmount,
		t.Date.Format("2006-01-02"),
		t.Notes,
		t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// Get retrieves a single transaction by owner and ID.
// Returns ErrTransactionNotFound if no matching row exists.
func (r *TransactionRepository) Get(owner, id string) (model.Transaction, error) {
	query := `
		SELECT id, owner, asset_id, type, quantity, price_per_unit, fees, total_amount, date, notes, created_at
		FROM "transaction"
		WHERE id = ? AND owner = ?
	`

	var t model.Transaction
	var dateStr, createdAtStr string
	var notes sql.NullString

	err := r.getQuerier().QueryRow(query, id, owner).Scan(
		&t.ID,
		&t.Owner,
		&t.AssetID,
		&t.Type,
		&t.Quantity,
		&t.PricePerUnit,
		&t.Fees,
		&t.TotalAmount,
		&dateStr,
		&notes,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	t.Date, err = ParseTime(dateStr)
	if err != nil || t.Date.IsZero() {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}

	t.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil || t.CreatedAt.IsZero() {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}

	if notes.Valid {
		t.Notes = notes.String
	}

	return t, nil
}

// ListByOwner retrieves all transactions for an owner, optionally filtered by
// asset symbol, enriched with asset data and ordered by date ascending.
func (r *TransactionRepository) ListByOwner(owner, symbol string) ([]model.TransactionResponse, error) {
	query := `
		SELECT t.id, t.asset_id, a.symbol, a.asset_class, t.type, t.quantity,
			t.price_per_unit, t.fees, t.total_amount, t.date, t.notes, t.created_at
		FROM "transaction" t
		JOIN asset a ON t.asset_id = a.id
		WHERE t.owner = ?
	`

	args := []any{owner}
	if symbol != "" {
		query += ` AND a.symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY t.date ASC, t.created_at ASC`

	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.TransactionResponse{}
	for rows.Next() {
		var t model.TransactionResponse
		var dateStr, createdAtStr string
		var notes sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.AssetID,
			&t.Symbol,
			&t.AssetClass,
			&t.Type,
			&t.Quantity,
			&t.PricePerUnit,
			&t.Fees,
			&t.TotalAmount,
			&dateStr,
			&notes,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		t.Date, err = ParseTime(dateStr)
		if err != nil || t.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil || t.CreatedAt.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		if notes.Valid {
			t.Notes = notes.String
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// Delete removes a transaction row by owner and ID.
// Returns ErrTransactionNotFound if no matching row exists.
func (r *TransactionRepository) Delete(ctx context.Context, owner, id string) error {
	query := `DELETE FROM "transaction" WHERE id = ? AND owner = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}
