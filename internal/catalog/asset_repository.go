package catalog

import (
	"fmt"

	"library/internal/repository"
	"library/pkg/metadata"
	"library/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type AssetRepository struct {
	repository *repository.Repository
}

func NewAssetRepository(r *repository.Repository) *AssetRepository {
	return &AssetRepository{
		repository: r,
	}
}

func (r *AssetRepository) GetAsset(assetID int) (*models.Asset, error) {
	var asset models.Asset

	query := r.repository.GoquDBWrapper.
		Select(assetColumns()...).
		From("assets").
		Where(goqu.Ex{"id": assetID})

	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		return nil, fmt.Errorf("failed to select asset %d: %w", assetID, err)
	}
	if !found {
		return nil, nil
	}

	return &asset, nil
}

func (r *AssetRepository) GetAssetList() ([]models.Asset, error) {
	var assets []models.Asset

	query := r.repository.GoquDBWrapper.
		Select(assetColumns()...).
		From("assets").
		Order(goqu.I("title").Asc())

	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	return assets, nil
}

// LockAsset reads the asset row under FOR UPDATE. Concurrent lifecycle
// operations on the same asset block here until the holding transaction
// commits or rolls back.
func (r *AssetRepository) LockAsset(tx *goqu.TxDatabase, assetID int) (*models.Asset, error) {
	var asset models.Asset

	query := tx.
		Select(assetColumns()...).
		From("assets").
		Where(goqu.Ex{"id": assetID}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		return nil, fmt.Errorf("failed to lock asset %d: %w", assetID, err)
	}
	if !found {
		return nil, nil
	}

	return &asset, nil
}

func (r *AssetRepository) UpdateAssetStatus(tx *goqu.TxDatabase, assetID int, status metadata.Status) error {
	query := tx.Update("assets").
		Set(goqu.Record{"status": status.String()}).
		Where(goqu.Ex{"id": assetID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update asset %d status: %w", assetID, err)
	}

	return nil
}

func assetColumns() []interface{} {
	return []interface{}{
		goqu.I("id").As("asset_id"),
		goqu.C("title"),
		goqu.C("author"),
		goqu.C("year"),
		goqu.C("cost"),
		goqu.C("image_url"),
		goqu.C("dewey_index"),
		goqu.C("status"),
	}
}
