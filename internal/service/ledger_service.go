package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avanderwijk/lotkeeper/internal/api/request"
	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/model"
	"github.com/avanderwijk/lotkeeper/internal/repository"
	"github.com/google/uuid"
)

// LedgerService is the system of record for buy/sell events. Recording a buy
// opens its tax lot, recording a sell settles it FIFO against the open lots,
// and deleting a transaction reverses those effects; each of these runs as a
// single database transaction so a ledger row can never exist without its
// required lot or gain effects.
type LedgerService struct {
	db               *sql.DB
	assetService     *AssetService
	transactionRepo  *repository.TransactionRepository
	taxLotRepo       *repository.TaxLotRepository
	realizedGainRepo *repository.RealizedGainRepository
}

// NewLedgerService creates a new LedgerService with the provided dependencies.
func NewLedgerService(
	db *sql.DB,
	assetService *AssetService,
	transactionRepo *repository.TransactionRepository,
	taxLotRepo *repository.TaxLotRepository,
	realizedGainRepo *repository.RealizedGainRepository,
) *LedgerService {
	return &LedgerService{
		db:               db,
		assetService:     assetService,
		transactionRepo:  transactionRepo,
		taxLotRepo:       taxLotRepo,
		realizedGainRepo: realizedGainRepo,
	}
}

// RecordTransaction records a buy or sell event for an owner. The asset is
// resolved (or created) before the accounting unit begins; no locks are held
// across that call. On a buy, the fees fold into the lot's cost basis; on a
// sell, fees reduce the recorded total amount but never the proceeds used in
// gain computation.
func (s *LedgerService) RecordTransaction(ctx context.Context, owner string, req request.CreateTransactionRequest) (*model.LedgerEntry, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}

	asset, err := s.assetService.ResolveOrCreate(ctx, req.Symbol, req.AssetClass)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset: %w", err)
	}

	totalAmount := req.Quantity*req.PricePerUnit + req.Fees
	if req.Type == model.TransactionTypeSell {
		totalAmount = req.Quantity*req.PricePerUnit - req.Fees
	}

	transaction := &model.Transaction{
		ID:           uuid.New().String(),
		Owner:        owner,
		AssetID:      asset.ID,
		Type:         req.Type,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		Fees:         req.Fees,
		TotalAmount:  totalAmount,
		Date:         date,
		Notes:        req.Notes,
		CreatedAt:    time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if err := s.transactionRepo.WithTx(tx).Insert(ctx, transaction); err != nil {
		return nil, err
	}

	entry := &model.LedgerEntry{Transaction: transaction}

	switch req.Type {
	case model.TransactionTypeBuy:
		lot, err := s.openLot(ctx, tx, transaction)
		if err != nil {
			return nil, err
		}
		entry.TaxLot = lot
	case model.TransactionTypeSell:
		gains, err := s.settleSale(ctx, tx, transaction, asset.Symbol)
		if err != nil {
			return nil, err
		}
		entry.RealizedGains = gains
	default:
		return nil, fmt.Errorf("unsupported transaction type: %s", req.Type)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

// openLot creates the cost-basis lot owned by a buy transaction, with the
// buy's fees allocated across its units.
func (s *LedgerService) openLot(ctx context.Context, tx *sql.Tx, t *model.Transaction) (*model.TaxLot, error) {
	lot := &model.TaxLot{
		ID:                uuid.New().String(),
		Owner:             t.Owner,
		AssetID:           t.AssetID,
		TransactionID:     t.ID,
		OriginalQuantity:  t.Quantity,
		RemainingQuantity: t.Quantity,
		CostBasisPerUnit:  (t.Quantity*t.PricePerUnit + t.Fees) / t.Quantity,
		PurchaseDate:      t.Date,
	}

	if err := s.taxLotRepo.WithTx(tx).Insert(ctx, lot); err != nil {
		return nil, err
	}

	return lot, nil
}

// settleSale consumes open lots oldest-first to satisfy a sell transaction and
// persists one realized gain per lot drawn from. The FIFO read happens inside
// the surrounding database transaction, so concurrent sells of the same asset
// serialize rather than overdraw a shared snapshot.
func (s *LedgerService) settleSale(ctx context.Context, tx *sql.Tx, t *model.Transaction, symbol string) ([]model.RealizedGain, error) {
	lotRepo := s.taxLotRepo.WithTx(tx)

	lots, err := lotRepo.GetOpenLots(t.Owner, t.AssetID)
	if err != nil {
		return nil, err
	}

	gains, draws, err := settleFIFO(lots, saleRequest{
		Owner:         t.Owner,
		TransactionID: t.ID,
		AssetID:       t.AssetID,
		Symbol:        symbol,
		Quantity:      t.Quantity,
		PricePerUnit:  t.PricePerUnit,
		SaleDate:      t.Date,
	})
	if err != nil {
		return nil, err
	}

	for _, draw := range draws {
		if err := lotRepo.UpdateRemaining(ctx, draw.LotID, draw.NewRemaining); err != nil {
			return nil, err
		}
	}

	if err := s.realizedGainRepo.WithTx(tx).InsertBatch(ctx, gains); err != nil {
		return nil, err
	}

	return gains, nil
}

// DeleteTransaction reverses a ledger entry. Deleting a buy removes its lot,
// but only while no realized gains reference that lot: the dependent sells
// must be deleted first, and the refusal names them. Deleting a sell restores
// the exact drained quantities to the lots they came from and removes the
// gain rows. Either reversal is atomic; a partial undo is never observable.
func (s *LedgerService) DeleteTransaction(ctx context.Context, owner, transactionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	transactionRepo := s.transactionRepo.WithTx(tx)

	transaction, err := transactionRepo.Get(owner, transactionID)
	if err != nil {
		return err
	}

	switch transaction.Type {
	case model.TransactionTypeBuy:
		if err := s.reverseBuy(ctx, tx, &transaction); err != nil {
			return err
		}
	case model.TransactionTypeSell:
		if err := s.reverseSell(ctx, tx, &transaction); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported transaction type: %s", transaction.Type)
	}

	if err := transactionRepo.Delete(ctx, owner, transactionID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *LedgerService) reverseBuy(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	lotRepo := s.taxLotRepo.WithTx(tx)

	lot, err := lotRepo.GetByTransactionID(t.Owner, t.ID)
	if err != nil {
		return err
	}

	dependents, err := s.realizedGainRepo.WithTx(tx).ListSellTransactionIDsByLot(lot.ID)
	if err != nil {
		return err
	}
	if len(dependents) > 0 {
		return &apperrors.DependentSalesError{
			TransactionID:    t.ID,
			DependentSaleIDs: dependents,
		}
	}

	return lotRepo.Delete(ctx, lot.ID)
}

func (s *LedgerService) reverseSell(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	gainRepo := s.realizedGainRepo.WithTx(tx)
	lotRepo := s.taxLotRepo.WithTx(tx)

	gains, err := gainRepo.ListByTransaction(t.Owner, t.ID)
	if err != nil {
		return err
	}

	for _, g := range gains {
		if err := lotRepo.RestoreQuantity(ctx, g.TaxLotID, g.QuantitySold); err != nil {
			return err
		}
	}

	return gainRepo.DeleteByTransaction(ctx, t.Owner, t.ID)
}

// GetTransaction retrieves a single transaction for an owner.
func (s *LedgerService) GetTransaction(owner, transactionID string) (model.Transaction, error) {
	return s.transactionRepo.Get(owner, transactionID)
}

// ListTransactions retrieves an owner's transactions, optionally filtered by
// asset symbol, enriched with asset data.
func (s *LedgerService) ListTransactions(owner, symbol string) ([]model.TransactionResponse, error) {
	return s.transactionRepo.ListByOwner(owner, symbol)
}
