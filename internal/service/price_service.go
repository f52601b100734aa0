package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/avanderwijk/lotkeeper/internal/model"
	"github.com/avanderwijk/lotkeeper/internal/pricefeed"
	"github.com/avanderwijk/lotkeeper/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// quoteConcurrency caps parallel requests against the quote API.
const quoteConcurrency = 4

// PriceService maintains the cached market prices used by reporting. Quotes
// are fetched concurrently per symbol; a symbol that cannot be quoted keeps
// its last cached price, and a symbol with neither is simply absent from the
// result. Settlement never consults prices.
type PriceService struct {
	assetRepo *repository.AssetRepository
	priceRepo *repository.PriceRepository
	feed      pricefeed.Client
}

// NewPriceService creates a new PriceService with the provided dependencies.
func NewPriceService(
	assetRepo *repository.AssetRepository,
	priceRepo *repository.PriceRepository,
	feed pricefeed.Client,
) *PriceService {
	return &PriceService{
		assetRepo: assetRepo,
		priceRepo: priceRepo,
		feed:      feed,
	}
}

// RefreshAll fetches a fresh quote for every known asset and stores it in the
// price cache. Individual quote failures are logged and skipped; the refresh
// as a whole only fails on storage or listing errors.
func (s *PriceService) RefreshAll(ctx context.Context) error {
	assets, err := s.assetRepo.List()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	quotes := make(map[string]pricefeed.Quote)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteConcurrency)

	for _, asset := range assets {
		asset := asset
		g.Go(func() error {
			quote, err := s.feed.Quote(gctx, asset.Symbol)
			if err != nil {
				log.Printf("price refresh: skipping %s: %v", asset.Symbol, err)
				return nil
			}
			mu.Lock()
			quotes[asset.ID] = quote
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, asset := range assets {
		quote, ok := quotes[asset.ID]
		if !ok {
			continue
		}
		err := s.priceRepo.Upsert(ctx, &model.AssetPrice{
			ID:        uuid.New().String(),
			AssetID:   asset.ID,
			Symbol:    asset.Symbol,
			Price:     quote.Price,
			FetchedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// CurrentPrices returns the best-known price per symbol: a live quote when
// the feed answers, the cached price otherwise. Symbols with neither are
// omitted; callers treat their valuations as indeterminate.
func (s *PriceService) CurrentPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	cached, err := s.priceRepo.GetBySymbols(symbols)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	prices := make(map[string]float64)
	for symbol, p := range cached {
		prices[symbol] = p.Price
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteConcurrency)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			quote, err := s.feed.Quote(gctx, symbol)
			if err != nil {
				// Cached price, if any, stands in for the failed quote.
				return nil
			}
			mu.Lock()
			prices[symbol] = quote.Price
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return prices, nil
}
