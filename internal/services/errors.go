package services

import "errors"

var (
	ErrConfig            = errors.New("wallet encryption key is not configured")
	ErrNoWallet          = errors.New("user has no wallet")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrWalletLocked      = errors.New("wallet creation in progress")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrNotOwned          = errors.New("asset not found or not owned by user")
	ErrNotForSale        = errors.New("asset is not for sale")
	ErrSelfTrade         = errors.New("cannot buy your own asset")
	ErrPriceMismatch     = errors.New("offered price does not match listing")
	ErrNotImplemented    = errors.New("not implemented: counter-signature unavailable")
	ErrOwnershipConflict = errors.New("asset ownership changed concurrently")
	ErrInvalidAddress    = errors.New("invalid recipient address")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrRateLimited       = errors.New("too many requests")
)
