package datastore

import (
	"context"
	"time"

	"nftwallet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableAsset(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Asset)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewRaw(`
		alter table assets
			drop constraint if exists assets_price_matches_sale;
		alter table assets
			add constraint assets_price_matches_sale check ((for_sale and price is not null) or (not for_sale and price is null));`).Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Asset)(nil)).Index("index_assets_owner").IfNotExists().Column("current_owner_address").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Asset)(nil)).Index("index_assets_for_sale").IfNotExists().Column("for_sale").Where("for_sale").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateAsset(ctx context.Context, db bun.IDB, asset *models.Asset) (*models.Asset, error) {
	_, err := db.NewInsert().Model(asset).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return asset, nil
}

func FindAssetByID(ctx context.Context, db bun.IDB, assetID uint64) (*models.Asset, error) {
	var asset models.Asset
	err := db.NewSelect().Model(&asset).Where("asset_id = ?", assetID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func FindAssetsByOwner(ctx context.Context, db bun.IDB, ownerAddress string) ([]models.Asset, error) {
	assets := make([]models.Asset, 0)
	err := db.NewSelect().Model(&assets).Where("current_owner_address = ?", ownerAddress).Order("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func FindAssetsForSale(ctx context.Context, db bun.IDB) ([]models.Asset, error) {
	assets := make([]models.Asset, 0)
	err := db.NewSelect().Model(&assets).Where("for_sale").Order("updated_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// UpdateAssetOwner moves an asset to a new owner only while fromAddress still
// owns it, and always clears the listing. Zero affected rows means the owner
// changed concurrently.
func UpdateAssetOwner(ctx context.Context, db bun.IDB, assetID uint64, fromAddress, toAddress string) (int64, error) {
	res, err := db.NewUpdate().Model((*models.Asset)(nil)).
		Set("current_owner_address = ?", toAddress).
		Set("for_sale = ?", false).
		Set("price = NULL").
		Set("updated_at = ?", time.Now()).
		Where("asset_id = ?", assetID).
		Where("current_owner_address = ?", fromAddress).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// UpdateAssetSale sets the listing state of an asset owned by ownerAddress.
// A nil price is stored as NULL.
func UpdateAssetSale(ctx context.Context, db bun.IDB, assetID uint64, ownerAddress string, forSale bool, price *uint64) (int64, error) {
	res, err := db.NewUpdate().Model((*models.Asset)(nil)).
		Set("for_sale = ?", forSale).
		Set("price = ?", price).
		Set("updated_at = ?", time.Now()).
		Where("asset_id = ?", assetID).
		Where("current_owner_address = ?", ownerAddress).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
