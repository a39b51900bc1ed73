package services

import (
	"fmt"
	"time"
)

const (
	CONFIG_WALLET_ENCRYPTION_KEY = "WALLET_ENCRYPTION_KEY"
	CONFIG_CONFIRMATION_ROUNDS   = "CONFIRMATION_ROUNDS"
	CONFIG_MINT_RATE_PER_MINUTE  = "MINT_RATE_LIMIT_PER_MINUTE"

	CACHE_TTL_15_SECONDS = 15 * time.Second

	LOCK_TTL_CREATE_WALLET = 30 * time.Second

	MINT_RATE_LIMIT_PER_MINUTE = 5

	// asset parameters for a one-of-one collectible
	NFT_TOTAL_SUPPLY  = 1
	NFT_DECIMALS      = 0
	NFT_UNIT_NAME     = "NFT"
	NFT_MAX_NAME_SIZE = 32
	NFT_MAX_URL_SIZE  = 96
)

func LockKeyCreateWallet(userID string) string {
	return fmt.Sprintf("lock:create-wallet:%s", userID)
}

func LimitKeyMint(userID string) string {
	return fmt.Sprintf("limit:mint:%s", userID)
}

// db
func DBKeyAssetsForSale() string {
	return "assets:for_sale"
}

func DBKeyAsset(assetID uint64) string {
	return fmt.Sprintf("asset:%d", assetID)
}
