package handler

import (
	"errors"

	"github.com/hiendaovinh/toolkit/pkg/errorx"

	"nftwallet/internal/ledger"
	"nftwallet/internal/services"
)

func isAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// classify tags a service error with the kind the REST layer renders.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isAny(err, services.ErrNoWallet, services.ErrWalletNotFound, services.ErrNotOwned, services.ErrAssetNotFound, ledger.ErrAccountNotFound):
		return errorx.Wrap(err, errorx.NotExist)
	case isAny(err, services.ErrInvalidAddress, services.ErrInvalidRequest):
		return errorx.Wrap(err, errorx.Validation)
	case isAny(err, services.ErrNotForSale, services.ErrSelfTrade, services.ErrPriceMismatch, services.ErrOwnershipConflict, services.ErrWalletLocked, ledger.ErrTransactionRejected):
		return errorx.Wrap(err, errorx.Invalid)
	case isAny(err, services.ErrRateLimited):
		return errorx.Wrap(err, errorx.RateLimiting)
	case isAny(err, services.ErrNotImplemented):
		return errorx.Wrap(err, errorx.Other)
	default:
		// config, storage, sealing and ledger failures
		return errorx.Wrap(err, errorx.Service)
	}
}
