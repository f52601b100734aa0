package service

import (
	"sort"
	"time"

	"github.com/avanderwijk/lotkeeper/internal/model"
	"github.com/avanderwijk/lotkeeper/internal/repository"
)

// ReportingService builds read-only rollups over the tax lots and realized
// gain history. It never mutates ledger state and never blocks a settlement.
type ReportingService struct {
	taxLotRepo       *repository.TaxLotRepository
	realizedGainRepo *repository.RealizedGainRepository
}

// NewReportingService creates a new ReportingService with the provided repository dependencies.
func NewReportingService(
	taxLotRepo *repository.TaxLotRepository,
	realizedGainRepo *repository.RealizedGainRepository,
) *ReportingService {
	return &ReportingService{
		taxLotRepo:       taxLotRepo,
		realizedGainRepo: realizedGainRepo,
	}
}

// CostBasisReport groups an owner's live lots by asset class, summing
// remaining quantity times cost basis per unit.
func (s *ReportingService) CostBasisReport(owner string) (model.CostBasisReport, error) {
	lots, err := s.taxLotRepo.List(owner, false)
	if err != nil {
		return model.CostBasisReport{}, err
	}

	byClass := make(map[string]*model.CostBasisGroup)
	report := model.CostBasisReport{Groups: []model.CostBasisGroup{}}

	for _, lot := range lots {
		if lot.RemainingQuantity <= QuantityEpsilon {
			continue
		}

		group, ok := byClass[lot.AssetClass]
		if !ok {
			group = &model.CostBasisGroup{AssetClass: lot.AssetClass}
			byClass[lot.AssetClass] = group
		}

		costBasis := lot.RemainingQuantity * lot.CostBasisPerUnit
		group.Quantity += lot.RemainingQuantity
		group.TotalCostBasis += costBasis
		group.LotCount++
		report.TotalCostBasis += costBasis
	}

	for _, group := range byClass {
		report.Groups = append(report.Groups, *group)
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		return report.Groups[i].AssetClass < report.Groups[j].AssetClass
	})

	return report, nil
}

// UnrealizedGains values an owner's live lots against the supplied current
// prices, keyed by symbol. A lot whose symbol has no price is listed as
// unpriced instead of failing the report; the totals cover priced lots only.
// WouldBeLongTerm classifies each lot as if it were sold today.
func (s *ReportingService) UnrealizedGains(owner string, priceBySymbol map[string]float64) (model.UnrealizedGainsReport, error) {
	lots, err := s.taxLotRepo.List(owner, false)
	if err != nil {
		return model.UnrealizedGainsReport{}, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	report := model.UnrealizedGainsReport{Entries: []model.UnrealizedGainEntry{}}

	for _, lot := range lots {
		if lot.RemainingQuantity <= QuantityEpsilon {
			continue
		}

		holdingDays := int(today.Sub(lot.PurchaseDate).Hours() / 24)
		costBasis := lot.RemainingQuantity * lot.CostBasisPerUnit

		entry := model.UnrealizedGainEntry{
			LotID:             lot.ID,
			Symbol:            lot.Symbol,
			AssetClass:        lot.AssetClass,
			RemainingQuantity: lot.RemainingQuantity,
			CostBasisPerUnit:  lot.CostBasisPerUnit,
			CostBasis:         costBasis,
			PurchaseDate:      lot.PurchaseDate,
			WouldBeLongTerm:   holdingDays >= LongTermHoldingDays,
		}

		price, ok := priceBySymbol[lot.Symbol]
		if ok {
			entry.PriceAvailable = true
			entry.CurrentPrice = price
			entry.CurrentValue = lot.RemainingQuantity * price
			entry.UnrealizedGain = entry.CurrentValue - costBasis

			report.TotalCostBasis += costBasis
			report.TotalCurrentValue += entry.CurrentValue
			report.TotalUnrealizedGain += entry.UnrealizedGain
		} else {
			report.UnpricedLots++
		}

		report.Entries = append(report.Entries, entry)
	}

	return report, nil
}

// TaxSummary partitions the realized gains of one calendar year by the
// long-term flag. Losses are carried as negative gain figures in storage but
// reported as positive loss totals; short-term and long-term net
// independently before summing into the total.
func (s *ReportingService) TaxSummary(owner string, year int) (model.TaxSummary, error) {
	gains, err := s.realizedGainRepo.ListByYear(owner, year)
	if err != nil {
		return model.TaxSummary{}, err
	}

	summary := model.TaxSummary{Year: year, PerAsset: []model.TaxSummaryAsset{}}
	perAsset := make(map[string]*model.TaxSummaryAsset)

	for _, g := range gains {
		bucket := &summary.ShortTerm
		if g.IsLongTerm {
			bucket = &summary.LongTerm
		}

		if g.GainLoss >= 0 {
			bucket.Gains += g.GainLoss
		} else {
			bucket.Losses += -g.GainLoss
		}

		asset, ok := perAsset[g.Symbol]
		if !ok {
			asset = &model.TaxSummaryAsset{Symbol: g.Symbol, AssetClass: g.AssetClass}
			perAsset[g.Symbol] = asset
		}
		if g.IsLongTerm {
			asset.LongTermNet += g.GainLoss
		} else {
			asset.ShortTermNet += g.GainLoss
		}
		asset.QuantitySold += g.QuantitySold
	}

	summary.ShortTerm.Net = summary.ShortTerm.Gains - summary.ShortTerm.Losses
	summary.LongTerm.Net = summary.LongTerm.Gains - summary.LongTerm.Losses
	summary.TotalNet = summary.ShortTerm.Net + summary.LongTerm.Net

	for _, asset := range perAsset {
		summary.PerAsset = append(summary.PerAsset, *asset)
	}
	sort.Slice(summary.PerAsset, func(i, j int) bool {
		return summary.PerAsset[i].Symbol < summary.PerAsset[j].Symbol
	})

	return summary, nil
}

// TaxLots retrieves an owner's lots, optionally including exhausted ones.
func (s *ReportingService) TaxLots(owner string, includeExhausted bool) ([]model.TaxLotResponse, error) {
	return s.taxLotRepo.List(owner, includeExhausted)
}
