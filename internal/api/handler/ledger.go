package handler

import (
	"errors"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"nftwallet/internal/ledger"
)

var errMissingTxID = errors.New("missing transaction id")

type groupLedger struct {
	container *do.Injector
}

func (gr *groupLedger) Status(c echo.Context) error {
	client, err := do.Invoke[*ledger.Client](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	status, err := client.GetNodeStatus(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"last_round":   status.LastRound,
		"last_version": status.LastVersion,
	}, nil)
}

// Transaction looks up a transaction by id, typically one whose confirmation
// wait ran out of rounds.
func (gr *groupLedger) Transaction(c echo.Context) error {
	client, err := do.Invoke[*ledger.Client](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	txID := c.Param("tx_id")
	if txID == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errMissingTxID, errorx.Validation))
	}

	tx, err := client.GetTransaction(c.Request().Context(), txID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, tx.Transaction, nil)
}
