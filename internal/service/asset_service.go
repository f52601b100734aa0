package service

import (
	"context"
	"errors"
	"strings"

	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/model"
	"github.com/avanderwijk/lotkeeper/internal/repository"
	"github.com/google/uuid"
)

// AssetService resolves ticker symbols to stable asset identifiers, creating
// assets on first sight. Resolution is idempotent by (symbol, assetClass).
type AssetService struct {
	assetRepo *repository.AssetRepository
}

// NewAssetService creates a new AssetService with the provided repository dependency.
func NewAssetService(assetRepo *repository.AssetRepository) *AssetService {
	return &AssetService{assetRepo: assetRepo}
}

// ResolveOrCreate returns the asset for (symbol, assetClass), creating it if
// unseen. A concurrent create racing on the unique constraint resolves by
// re-reading the winner's row.
func (s *AssetService) ResolveOrCreate(ctx context.Context, symbol, assetClass string) (model.Asset, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	asset, err := s.assetRepo.GetBySymbol(symbol, assetClass)
	if err == nil {
		return asset, nil
	}
	if !errors.Is(err, apperrors.ErrAssetNotFound) {
		return model.Asset{}, err
	}

	asset = model.Asset{
		ID:         uuid.New().String(),
		Symbol:     symbol,
		AssetClass: assetClass,
	}

	err = s.assetRepo.Insert(ctx, &asset)
	if errors.Is(err, apperrors.ErrDuplicateEntry) {
		return s.assetRepo.GetBySymbol(symbol, assetClass)
	}
	if err != nil {
		return model.Asset{}, err
	}

	return asset, nil
}

// List retrieves all known assets.
func (s *AssetService) List() ([]model.Asset, error) {
	return s.assetRepo.List()
}
