package handler

import (
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"nftwallet/internal/services"
)

type groupNFT struct {
	container *do.Injector
}

func (gr *groupNFT) Mint(c echo.Context) error {
	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	payload, err := bindMintPayload(c)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	result, err := serviceAsset.Mint(ctx, &services.MintRequest{
		UserID:        user.ID,
		Name:          payload.Name,
		Description:   payload.Description,
		Image:         payload.Image,
		ImageFilename: payload.ImageFilename,
		Properties:    payload.Properties,
	})
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupNFT) Transfer(c echo.Context) error {
	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	assetID, err := parseAssetID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	var payload TransferPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if err := payload.Validate(); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	result, err := serviceAsset.Transfer(ctx, user.ID, payload.ToAddress, assetID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupNFT) List(c echo.Context) error {
	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	assetID, err := parseAssetID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	var payload PricePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if err := payload.Validate(); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	if err := serviceAsset.ListForSale(ctx, user.ID, assetID, payload.Price); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"asset_id": assetID,
		"for_sale": true,
		"price":    payload.Price,
	}, nil)
}

func (gr *groupNFT) Unlist(c echo.Context) error {
	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	assetID, err := parseAssetID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	if err := serviceAsset.RemoveFromSale(ctx, user.ID, assetID); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"asset_id": assetID,
		"for_sale": false,
	}, nil)
}

func (gr *groupNFT) Buy(c echo.Context) error {
	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	assetID, err := parseAssetID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	var payload PricePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if err := payload.Validate(); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	// never succeeds
	err = serviceAsset.Buy(ctx, user.ID, assetID, payload.Price)
	return httpx.RestAbort(c, nil, classify(err))
}

func (gr *groupNFT) Mine(c echo.Context) error {
	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveUser(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	assets, err := serviceAsset.GetUserAssets(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, assets, nil)
}

func (gr *groupNFT) Market(c echo.Context) error {
	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	assets, err := serviceAsset.GetAssetsForSale(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, assets, nil)
}

func (gr *groupNFT) Show(c echo.Context) error {
	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	assetID, err := parseAssetID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	ctx := c.Request().Context()
	asset, err := serviceAsset.GetAsset(ctx, assetID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	transactions, err := serviceAsset.GetAssetTransactions(ctx, assetID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"asset":        asset,
		"transactions": transactions,
	}, nil)
}
