package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/go-redis/redis_rate/v10"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"nftwallet/internal/interfaces"
	"nftwallet/internal/ledger"
	"nftwallet/internal/models"
	"nftwallet/internal/pkg/caching"
	"nftwallet/internal/pkg/limiter"
	"nftwallet/internal/pkg/metrics"
	"nftwallet/internal/pkg/pinning"
	"nftwallet/internal/pkg/signer"
)

type Ledger interface {
	GetTransactionParams(ctx context.Context) (types.SuggestedParams, error)
	SubmitSigned(ctx context.Context, signed []byte, maxRounds int) (*ledger.Confirmation, error)
}

type MintRequest struct {
	UserID        string
	Name          string
	Description   string
	Image         []byte
	ImageFilename string
	Properties    map[string]any
}

type MintResult struct {
	AssetID uint64        `json:"asset_id"`
	TxID    string        `json:"tx_id"`
	Asset   *models.Asset `json:"asset"`
}

type TransferResult struct {
	AssetID        uint64 `json:"asset_id"`
	TxID           string `json:"tx_id"`
	ConfirmedRound uint64 `json:"confirmed_round"`
	From           string `json:"from"`
	To             string `json:"to"`
}

type ServiceAsset struct {
	wallets   SignerProvider
	ledger    Ledger
	uploader  pinning.Uploader
	store     AssetStore
	cache     caching.Cache
	limiter   interfaces.Limiter
	maxRounds int
	mintRate  int
}

func NewServiceAsset(container *do.Injector) (*ServiceAsset, error) {
	envs, err := do.InvokeNamed[map[string]string](container, "envs")
	if err != nil {
		return nil, err
	}

	wallets, err := do.Invoke[*ServiceWallet](container)
	if err != nil {
		return nil, err
	}

	client, err := do.Invoke[*ledger.Client](container)
	if err != nil {
		return nil, err
	}

	uploader, err := do.Invoke[pinning.Uploader](container)
	if err != nil {
		return nil, err
	}

	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	rateLimiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	maxRounds := 0
	if v := envs[CONFIG_CONFIRMATION_ROUNDS]; v != "" {
		maxRounds, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", CONFIG_CONFIRMATION_ROUNDS, err)
		}
	}

	mintRate := MINT_RATE_LIMIT_PER_MINUTE
	if v := envs[CONFIG_MINT_RATE_PER_MINUTE]; v != "" {
		mintRate, err = strconv.Atoi(v)
		if err != nil || mintRate <= 0 {
			return nil, fmt.Errorf("%w: invalid %s %q", ErrConfig, CONFIG_MINT_RATE_PER_MINUTE, v)
		}
	}

	return &ServiceAsset{
		wallets:   wallets,
		ledger:    client,
		uploader:  uploader,
		store:     NewBunAssetStore(db),
		cache:     cache,
		limiter:   rateLimiter,
		maxRounds: maxRounds,
		mintRate:  mintRate,
	}, nil
}

// Mint pins the artwork and its metadata, creates a one-of-one asset on chain
// and records it once the creation is confirmed.
func (service *ServiceAsset) Mint(ctx context.Context, req *MintRequest) (result *MintResult, err error) {
	defer func() {
		metrics.AssetOperations.WithLabelValues(models.TransactionKindMint, metrics.Outcome(err)).Inc()
	}()

	if err := service.allowMint(ctx, req.UserID); err != nil {
		return nil, err
	}

	account, err := service.wallets.GetSigningAccountFromUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	defer account.Wipe()

	filename := req.ImageFilename
	if filename == "" {
		filename = req.Name
	}
	imageURL, err := service.uploader.UploadFile(ctx, filename, req.Image)
	if err != nil {
		return nil, err
	}

	properties := req.Properties
	if properties == nil {
		properties = map[string]any{}
	}
	metadataURL, err := service.uploader.UploadJSON(ctx, req.Name+"-metadata.json", models.AssetMetadata{
		Name:        req.Name,
		Description: req.Description,
		Image:       imageURL,
		Properties:  properties,
	})
	if err != nil {
		return nil, err
	}

	if len(metadataURL) > NFT_MAX_URL_SIZE {
		return nil, fmt.Errorf("%w: metadata url is %d bytes, the ledger allows %d", ErrConfig, len(metadataURL), NFT_MAX_URL_SIZE)
	}

	params, err := service.ledger.GetTransactionParams(ctx)
	if err != nil {
		return nil, err
	}

	creator := account.Address()
	tx, err := transaction.MakeAssetCreateTxn(
		creator, nil, params,
		NFT_TOTAL_SUPPLY, NFT_DECIMALS, false,
		creator, creator, creator, "",
		NFT_UNIT_NAME, truncate(req.Name, NFT_MAX_NAME_SIZE), metadataURL, "",
	)
	if err != nil {
		return nil, fmt.Errorf("build asset creation: %w", err)
	}

	_, signed, err := account.SignTransaction(tx)
	if err != nil {
		return nil, err
	}

	confirmation, err := service.ledger.SubmitSigned(ctx, signed, service.maxRounds)
	if err != nil {
		return nil, err
	}
	if confirmation.AssetIndex == 0 {
		return nil, &ledger.PendingError{TxID: confirmation.TxID, Err: errors.New("confirmation carried no asset id")}
	}

	now := time.Now()
	asset := &models.Asset{
		AssetID:             confirmation.AssetIndex,
		Name:                req.Name,
		Description:         req.Description,
		ImageURL:            imageURL,
		MetadataURL:         metadataURL,
		CreatorAddress:      creator,
		CurrentOwnerAddress: creator,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	// the asset exists on chain now; the record must not depend on the caller staying
	err = service.store.RecordMint(context.WithoutCancel(ctx), asset, &models.AssetTransaction{
		AssetID:     asset.AssetID,
		TxID:        confirmation.TxID,
		ToAddress:   creator,
		Kind:        models.TransactionKindMint,
		BlockNumber: confirmation.ConfirmedRound,
		CreatedAt:   now,
	})
	if err != nil {
		log.Printf("asset: minted %d in tx %s but could not record it: %v", asset.AssetID, confirmation.TxID, err)
		return nil, err
	}

	log.Printf("asset: minted %d by %s at round %d", asset.AssetID, creator, confirmation.ConfirmedRound)
	return &MintResult{AssetID: asset.AssetID, TxID: confirmation.TxID, Asset: asset}, nil
}

// Transfer moves a single unit of assetID from the user's wallet to toAddress.
// A transfer always delists the asset.
func (service *ServiceAsset) Transfer(ctx context.Context, fromUserID string, toAddress string, assetID uint64) (result *TransferResult, err error) {
	defer func() {
		metrics.AssetOperations.WithLabelValues(models.TransactionKindTransfer, metrics.Outcome(err)).Inc()
	}()

	wallet, err := service.wallets.GetWalletByUserID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, ErrNoWallet
	}

	if _, err := service.ownedAsset(ctx, assetID, wallet.Address); err != nil {
		return nil, err
	}

	if _, err := types.DecodeAddress(toAddress); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if toAddress == wallet.Address {
		return nil, fmt.Errorf("%w: recipient already owns the asset", ErrInvalidAddress)
	}

	account, err := service.wallets.GetSigningAccountFromUserID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	defer account.Wipe()

	confirmation, err := service.sendAsset(ctx, account, toAddress, assetID)
	if err != nil {
		return nil, err
	}

	from := account.Address()
	err = service.store.RecordTransfer(context.WithoutCancel(ctx), assetID, from, toAddress, &models.AssetTransaction{
		AssetID:     assetID,
		TxID:        confirmation.TxID,
		FromAddress: &from,
		ToAddress:   toAddress,
		Kind:        models.TransactionKindTransfer,
		BlockNumber: confirmation.ConfirmedRound,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		log.Printf("asset: transferred %d in tx %s but could not record it: %v", assetID, confirmation.TxID, err)
		return nil, err
	}
	caching.Invalidate(context.WithoutCancel(ctx), service.cache, DBKeyAssetsForSale(), DBKeyAsset(assetID))

	log.Printf("asset: transferred %d from %s to %s", assetID, from, toAddress)
	return &TransferResult{
		AssetID:        assetID,
		TxID:           confirmation.TxID,
		ConfirmedRound: confirmation.ConfirmedRound,
		From:           from,
		To:             toAddress,
	}, nil
}

func (service *ServiceAsset) ListForSale(ctx context.Context, userID string, assetID uint64, price uint64) error {
	return service.setSale(ctx, userID, assetID, true, &price)
}

func (service *ServiceAsset) RemoveFromSale(ctx context.Context, userID string, assetID uint64) error {
	return service.setSale(ctx, userID, assetID, false, nil)
}

// GetUserAssets lists the assets the user's wallet currently owns. A user
// without a wallet owns nothing.
func (service *ServiceAsset) GetUserAssets(ctx context.Context, userID string) ([]models.Asset, error) {
	wallet, err := service.wallets.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return []models.Asset{}, nil
	}
	return service.store.FindAssetsByOwner(ctx, wallet.Address)
}

func (service *ServiceAsset) GetAssetsForSale(ctx context.Context) ([]models.Asset, error) {
	callback := func() ([]models.Asset, error) {
		return service.store.FindAssetsForSale(ctx)
	}
	return caching.UseCache(ctx, service.cache, DBKeyAssetsForSale(), CACHE_TTL_15_SECONDS, callback)
}

func (service *ServiceAsset) GetAsset(ctx context.Context, assetID uint64) (*models.Asset, error) {
	callback := func() (*models.Asset, error) {
		return service.store.FindAssetByID(ctx, assetID)
	}
	asset, err := caching.UseCache(ctx, service.cache, DBKeyAsset(assetID), CACHE_TTL_15_SECONDS, callback)
	if isNoRows(err) {
		return nil, ErrAssetNotFound
	}
	return asset, err
}

func (service *ServiceAsset) GetAssetTransactions(ctx context.Context, assetID uint64) ([]models.AssetTransaction, error) {
	return service.store.FindAssetTransactions(ctx, assetID)
}

func (service *ServiceAsset) setSale(ctx context.Context, userID string, assetID uint64, forSale bool, price *uint64) error {
	wallet, err := service.wallets.GetWalletByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if wallet == nil {
		return ErrNoWallet
	}

	rows, err := service.store.UpdateAssetSale(ctx, assetID, wallet.Address, forSale, price)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotOwned
	}

	caching.Invalidate(ctx, service.cache, DBKeyAssetsForSale(), DBKeyAsset(assetID))
	return nil
}

func (service *ServiceAsset) ownedAsset(ctx context.Context, assetID uint64, owner string) (*models.Asset, error) {
	asset, err := service.store.FindAssetByID(ctx, assetID)
	if isNoRows(err) {
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}
	if asset.CurrentOwnerAddress != owner {
		return nil, ErrNotOwned
	}
	return asset, nil
}

func (service *ServiceAsset) sendAsset(ctx context.Context, account *signer.Account, toAddress string, assetID uint64) (*ledger.Confirmation, error) {
	params, err := service.ledger.GetTransactionParams(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := transaction.MakeAssetTransferTxn(account.Address(), toAddress, 1, nil, params, "", assetID)
	if err != nil {
		return nil, fmt.Errorf("build asset transfer: %w", err)
	}

	_, signed, err := account.SignTransaction(tx)
	if err != nil {
		return nil, err
	}
	return service.ledger.SubmitSigned(ctx, signed, service.maxRounds)
}

func (service *ServiceAsset) allowMint(ctx context.Context, userID string) error {
	if service.limiter == nil {
		return nil
	}
	rate := service.mintRate
	if rate <= 0 {
		rate = MINT_RATE_LIMIT_PER_MINUTE
	}
	err := service.limiter.Allow(ctx, LimitKeyMint(userID), redis_rate.PerMinute(rate))
	if errors.Is(err, limiter.ErrRateLimited) {
		return ErrRateLimited
	}
	return err
}

func truncate(s string, size int) string {
	if len(s) <= size {
		return s
	}
	// keep whole runes
	cut := s[:size]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
