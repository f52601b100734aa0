package service

import (
	"time"

	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/model"
	"github.com/google/uuid"
)

const (
	// QuantityEpsilon absorbs floating-point drift from repeated cost-basis
	// division when deciding whether a sale is fully satisfied or a lot is
	// exhausted. Without it, legitimate full-lot sales can spuriously fail.
	QuantityEpsilon = 1e-8

	// LongTermHoldingDays is the raw day count at which a holding qualifies
	// as long-term: one year plus one day, not calendar-aware.
	LongTermHoldingDays = 366
)

// saleRequest carries the parameters of one sell settlement.
type saleRequest struct {
	Owner         string
	TransactionID string
	AssetID       string
	Symbol        string
	Quantity      float64
	PricePerUnit  float64
	SaleDate      time.Time
}

// lotDraw records the quantity a settlement drew from one lot and the lot's
// resulting remaining quantity.
type lotDraw struct {
	LotID        string
	Quantity     float64
	NewRemaining float64
}

// settleFIFO walks the open lots oldest purchase first and consumes them to
// satisfy the sale, emitting one realized gain per lot touched. It mutates
// nothing: the caller applies the returned draws and gains inside its own
// transaction, or discards everything on error.
//
// The lots slice must already be ordered by (purchase date, insertion
// sequence), as TaxLotRepository.GetOpenLots returns it.
func settleFIFO(lots []model.TaxLot, sale saleRequest) ([]model.RealizedGain, []lotDraw, error) {
	remainingToSell := sale.Quantity
	gains := []model.RealizedGain{}
	draws := []lotDraw{}

	for _, lot := range lots {
		if remainingToSell <= QuantityEpsilon {
			break
		}

		drawQty := min(lot.RemainingQuantity, remainingToSell)
		costBasisPortion := drawQty * lot.CostBasisPerUnit
		proceedsPortion := drawQty * sale.PricePerUnit
		holdingDays := int(sale.SaleDate.Sub(lot.PurchaseDate).Hours() / 24)

		gains = append(gains, model.RealizedGain{
			ID:            uuid.New().String(),
			Owner:         sale.Owner,
			TransactionID: sale.TransactionID,
			TaxLotID:      lot.ID,
			AssetID:       sale.AssetID,
			QuantitySold:  drawQty,
			CostBasis:     costBasisPortion,
			Proceeds:      proceedsPortion,
			GainLoss:      proceedsPortion - costBasisPortion,
			HoldingDays:   holdingDays,
			IsLongTerm:    holdingDays >= LongTermHoldingDays,
			SaleDate:      sale.SaleDate,
		})

		newRemaining := lot.RemainingQuantity - drawQty
		if newRemaining < QuantityEpsilon {
			newRemaining = 0
		}
		draws = append(draws, lotDraw{
			LotID:        lot.ID,
			Quantity:     drawQty,
			NewRemaining: newRemaining,
		})

		remainingToSell -= drawQty
	}

	if remainingToSell > QuantityEpsilon {
		var available float64
		for _, lot := range lots {
			available += lot.RemainingQuantity
		}
		return nil, nil, &apperrors.InsufficientHoldingsError{
			Symbol:    sale.Symbol,
			Requested: sale.Quantity,
			Available: available,
		}
	}

	return gains, draws, nil
}
