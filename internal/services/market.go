package services

import (
	"context"
	"fmt"
	"log"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"nftwallet/internal/models"
	"nftwallet/internal/pkg/metrics"
)

// Buy validates a purchase and prepares the atomic payment and asset legs.
// Settlement needs the seller's signature on the asset leg, which custody of
// the buyer's key alone cannot provide, so Buy never submits and always ends
// in an error: a precondition failure or ErrNotImplemented.
func (service *ServiceAsset) Buy(ctx context.Context, buyerUserID string, assetID uint64, price uint64) (err error) {
	defer func() {
		metrics.AssetOperations.WithLabelValues(models.TransactionKindBuy, metrics.Outcome(err)).Inc()
	}()

	wallet, err := service.wallets.GetWalletByUserID(ctx, buyerUserID)
	if err != nil {
		return err
	}
	if wallet == nil {
		return ErrNoWallet
	}

	asset, err := service.store.FindAssetByID(ctx, assetID)
	if isNoRows(err) {
		return ErrAssetNotFound
	}
	if err != nil {
		return err
	}
	if !asset.ForSale || asset.Price == nil {
		return ErrNotForSale
	}
	if asset.CurrentOwnerAddress == wallet.Address {
		return ErrSelfTrade
	}
	if *asset.Price != price {
		return ErrPriceMismatch
	}

	account, err := service.wallets.GetSigningAccountFromUserID(ctx, buyerUserID)
	if err != nil {
		return err
	}
	defer account.Wipe()

	params, err := service.ledger.GetTransactionParams(ctx)
	if err != nil {
		return err
	}

	group, err := buildPurchaseGroup(params, account.Address(), asset.CurrentOwnerAddress, assetID, price)
	if err != nil {
		return err
	}

	if _, _, err := account.SignTransaction(group[0]); err != nil {
		return err
	}

	log.Printf("asset: purchase of %d by %s prepared, seller signature unavailable", assetID, account.Address())
	return ErrNotImplemented
}

// buildPurchaseGroup returns [payment buyer->seller, asset seller->buyer]
// sharing one group id.
func buildPurchaseGroup(params types.SuggestedParams, buyer, seller string, assetID, price uint64) ([]types.Transaction, error) {
	payment, err := transaction.MakePaymentTxn(buyer, seller, price, nil, "", params)
	if err != nil {
		return nil, fmt.Errorf("build payment leg: %w", err)
	}

	delivery, err := transaction.MakeAssetTransferTxn(seller, buyer, 1, nil, params, "", assetID)
	if err != nil {
		return nil, fmt.Errorf("build asset leg: %w", err)
	}

	group := []types.Transaction{payment, delivery}
	gid, err := crypto.ComputeGroupID(group)
	if err != nil {
		return nil, fmt.Errorf("compute group id: %w", err)
	}
	for i := range group {
		group[i].Group = gid
	}
	return group, nil
}
