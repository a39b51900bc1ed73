package handler

import (
	"errors"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"nftwallet/internal/ledger"
	"nftwallet/internal/services"
)

type groupWallet struct {
	container *do.Injector
}

func (gr *groupWallet) Create(c echo.Context) error {
	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	wallet, created, err := serviceWallet.CreateWallet(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"wallet_id": wallet.ID,
		"address":   wallet.Address,
		"created":   created,
	}, nil)
}

func (gr *groupWallet) Show(c echo.Context) error {
	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	wallet, err := serviceWallet.GetWalletByUserID(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}
	if wallet == nil {
		return httpx.RestAbort(c, nil, classify(services.ErrNoWallet))
	}

	return httpx.RestAbort(c, wallet, nil)
}

func (gr *groupWallet) Deactivate(c echo.Context) error {
	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	wallet, err := serviceWallet.GetWalletByUserID(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}
	if wallet == nil {
		return httpx.RestAbort(c, nil, classify(services.ErrNoWallet))
	}

	if err := serviceWallet.DeactivateWallet(ctx, wallet.ID); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"wallet_id": wallet.ID,
		"is_active": false,
	}, nil)
}

// Account reports the on-chain balance and holdings of the user's wallet.
func (gr *groupWallet) Account(c echo.Context) error {
	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}
	client, err := do.Invoke[*ledger.Client](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	wallet, err := serviceWallet.GetWalletByUserID(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}
	if wallet == nil {
		return httpx.RestAbort(c, nil, classify(services.ErrNoWallet))
	}

	account, err := client.GetAccountInfo(ctx, wallet.Address)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		// never funded
		return httpx.RestAbort(c, map[string]interface{}{
			"address": wallet.Address,
			"funded":  false,
			"amount":  0,
			"assets":  []interface{}{},
		}, nil)
	}
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"address": wallet.Address,
		"funded":  true,
		"amount":  account.Amount,
		"assets":  account.Assets,
	}, nil)
}
