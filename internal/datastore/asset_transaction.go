package datastore

import (
	"context"

	"nftwallet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableAssetTransaction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.AssetTransaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.AssetTransaction)(nil)).Index("index_asset_transactions_asset_id").IfNotExists().Column("asset_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.AssetTransaction)(nil)).Index("index_asset_transactions_tx_id").Unique().IfNotExists().Column("tx_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateAssetTransaction(ctx context.Context, db bun.IDB, record *models.AssetTransaction) (*models.AssetTransaction, error) {
	_, err := db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func FindAssetTransactions(ctx context.Context, db bun.IDB, assetID uint64) ([]models.AssetTransaction, error) {
	records := make([]models.AssetTransaction, 0)
	err := db.NewSelect().Model(&records).Where("asset_id = ?", assetID).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
