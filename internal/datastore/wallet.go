package datastore

import (
	"context"
	"time"

	"nftwallet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableWallet(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Wallet)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	// at most one active wallet per user
	_, err = db.NewCreateIndex().Model((*models.Wallet)(nil)).Index("index_wallets_user_active").Unique().IfNotExists().Column("user_id").Where("is_active").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Wallet)(nil)).Index("index_wallets_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindActiveWalletByUserID(ctx context.Context, db bun.IDB, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := db.NewSelect().Model(&wallet).Where("user_id = ?", userID).Where("is_active").Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func FindWalletByID(ctx context.Context, db bun.IDB, walletID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := db.NewSelect().Model(&wallet).Where("id = ?", walletID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func CreateWallet(ctx context.Context, db bun.IDB, wallet *models.Wallet) (*models.Wallet, error) {
	_, err := db.NewInsert().Model(wallet).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// DeactivateWallet soft-deletes a wallet and reports how many rows changed.
func DeactivateWallet(ctx context.Context, db bun.IDB, walletID string) (int64, error) {
	res, err := db.NewUpdate().Model((*models.Wallet)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", walletID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
