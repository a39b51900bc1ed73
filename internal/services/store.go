package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"nftwallet/internal/datastore"
	"nftwallet/internal/models"
)

// Not-found lookups return sql.ErrNoRows.
type WalletStore interface {
	FindActiveWalletByUserID(ctx context.Context, userID string) (*models.Wallet, error)
	FindWalletByID(ctx context.Context, walletID string) (*models.Wallet, error)
	CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)
	DeactivateWallet(ctx context.Context, walletID string) (int64, error)
}

type AssetStore interface {
	FindAssetByID(ctx context.Context, assetID uint64) (*models.Asset, error)
	FindAssetsByOwner(ctx context.Context, ownerAddress string) ([]models.Asset, error)
	FindAssetsForSale(ctx context.Context) ([]models.Asset, error)
	FindAssetTransactions(ctx context.Context, assetID uint64) ([]models.AssetTransaction, error)
	UpdateAssetSale(ctx context.Context, assetID uint64, ownerAddress string, forSale bool, price *uint64) (int64, error)
	// RecordMint inserts the asset and its mint record atomically.
	RecordMint(ctx context.Context, asset *models.Asset, record *models.AssetTransaction) error
	// RecordTransfer moves ownership only if fromAddress still owns the asset,
	// then appends the record. Zero matching rows is ErrOwnershipConflict.
	RecordTransfer(ctx context.Context, assetID uint64, fromAddress, toAddress string, record *models.AssetTransaction) error
}

type BunWalletStore struct {
	db *bun.DB
}

func NewBunWalletStore(db *bun.DB) *BunWalletStore {
	return &BunWalletStore{db}
}

func (s *BunWalletStore) FindActiveWalletByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	return datastore.FindActiveWalletByUserID(ctx, s.db, userID)
}

func (s *BunWalletStore) FindWalletByID(ctx context.Context, walletID string) (*models.Wallet, error) {
	return datastore.FindWalletByID(ctx, s.db, walletID)
}

func (s *BunWalletStore) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	return datastore.CreateWallet(ctx, s.db, wallet)
}

func (s *BunWalletStore) DeactivateWallet(ctx context.Context, walletID string) (int64, error) {
	return datastore.DeactivateWallet(ctx, s.db, walletID)
}

type BunAssetStore struct {
	db *bun.DB
}

func NewBunAssetStore(db *bun.DB) *BunAssetStore {
	return &BunAssetStore{db}
}

func (s *BunAssetStore) FindAssetByID(ctx context.Context, assetID uint64) (*models.Asset, error) {
	return datastore.FindAssetByID(ctx, s.db, assetID)
}

func (s *BunAssetStore) FindAssetsByOwner(ctx context.Context, ownerAddress string) ([]models.Asset, error) {
	return datastore.FindAssetsByOwner(ctx, s.db, ownerAddress)
}

func (s *BunAssetStore) FindAssetsForSale(ctx context.Context) ([]models.Asset, error) {
	return datastore.FindAssetsForSale(ctx, s.db)
}

func (s *BunAssetStore) FindAssetTransactions(ctx context.Context, assetID uint64) ([]models.AssetTransaction, error) {
	return datastore.FindAssetTransactions(ctx, s.db, assetID)
}

func (s *BunAssetStore) UpdateAssetSale(ctx context.Context, assetID uint64, ownerAddress string, forSale bool, price *uint64) (int64, error) {
	return datastore.UpdateAssetSale(ctx, s.db, assetID, ownerAddress, forSale, price)
}

func (s *BunAssetStore) RecordMint(ctx context.Context, asset *models.Asset, record *models.AssetTransaction) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := datastore.CreateAsset(ctx, tx, asset); err != nil {
			return err
		}
		_, err := datastore.CreateAssetTransaction(ctx, tx, record)
		return err
	})
}

func (s *BunAssetStore) RecordTransfer(ctx context.Context, assetID uint64, fromAddress, toAddress string, record *models.AssetTransaction) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		rows, err := datastore.UpdateAssetOwner(ctx, tx, assetID, fromAddress, toAddress)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOwnershipConflict
		}
		_, err = datastore.CreateAssetTransaction(ctx, tx, record)
		return err
	})
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
