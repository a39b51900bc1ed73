package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"nftwallet/internal/pkg/metrics"
)

const DefaultMaxRounds = 100

type Config struct {
	AlgodServer   string
	AlgodToken    string
	IndexerServer string
	IndexerToken  string
}

type Confirmation struct {
	TxID           string `json:"tx_id"`
	ConfirmedRound uint64 `json:"confirmed_round"`
	AssetIndex     uint64 `json:"asset_index,omitempty"`
}

// Client is a thin facade over an algod node and an indexer. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	node    Node
	indexer Indexer
}

func NewClient(node Node, indexer Indexer) *Client {
	return &Client{node: node, indexer: indexer}
}

func New(cfg Config) (*Client, error) {
	node, err := NewAlgodNode(cfg.AlgodServer, cfg.AlgodToken)
	if err != nil {
		return nil, err
	}
	idx, err := NewIndexerNode(cfg.IndexerServer, cfg.IndexerToken)
	if err != nil {
		return nil, err
	}
	return NewClient(node, idx), nil
}

func (c *Client) GetNodeStatus(ctx context.Context) (models.NodeStatus, error) {
	status, err := c.node.Status(ctx)
	if err != nil {
		return status, networkError("status", err)
	}
	return status, nil
}

func (c *Client) GetAccountInfo(ctx context.Context, address string) (models.Account, error) {
	account, err := c.node.AccountInformation(ctx, address)
	if err != nil {
		if isAccountMissing(err) {
			return account, ErrAccountNotFound
		}
		return account, networkError("account information", err)
	}
	return account, nil
}

func (c *Client) GetTransactionParams(ctx context.Context) (types.SuggestedParams, error) {
	params, err := c.node.SuggestedParams(ctx)
	if err != nil {
		return params, networkError("suggested params", err)
	}
	return params, nil
}

func (c *Client) SendRawTransaction(ctx context.Context, signed []byte) (string, error) {
	txID, err := c.node.SendRawTransaction(ctx, signed)
	if err != nil {
		return "", networkError("send raw transaction", err)
	}
	return txID, nil
}

// WaitForConfirmation polls the pending pool until txID is confirmed. It waits
// for at most maxRounds block advances; maxRounds <= 0 means DefaultMaxRounds.
// Cancelling ctx does not stop the wait, only the round budget does. Every
// failure is a *PendingError carrying txID.
func (c *Client) WaitForConfirmation(ctx context.Context, txID string, maxRounds int) (*Confirmation, error) {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	ctx = context.WithoutCancel(ctx)

	status, err := c.node.Status(ctx)
	if err != nil {
		return nil, &PendingError{TxID: txID, Err: networkError("status", err)}
	}
	round := status.LastRound

	for waited := 0; ; waited++ {
		info, err := c.node.PendingTransactionInformation(ctx, txID)
		if err != nil {
			return nil, &PendingError{TxID: txID, Err: networkError("pending transaction", err)}
		}
		if info.PoolError != "" {
			return nil, &PendingError{TxID: txID, Err: fmt.Errorf("%w: %s", ErrTransactionRejected, info.PoolError)}
		}
		if info.ConfirmedRound > 0 {
			return &Confirmation{
				TxID:           txID,
				ConfirmedRound: info.ConfirmedRound,
				AssetIndex:     info.AssetIndex,
			}, nil
		}
		if waited >= maxRounds {
			return nil, &PendingError{TxID: txID, Err: ErrConfirmationTimeout}
		}

		round++
		if _, err := c.node.StatusAfterBlock(ctx, round); err != nil {
			return nil, &PendingError{TxID: txID, Err: networkError("status after block", err)}
		}
	}
}

// SubmitSigned sends an encoded signed transaction (or group) and waits for it.
func (c *Client) SubmitSigned(ctx context.Context, signed []byte, maxRounds int) (*Confirmation, error) {
	started := time.Now()
	txID, err := c.SendRawTransaction(ctx, signed)
	if err != nil {
		metrics.LedgerSubmissions.WithLabelValues("send_failed").Inc()
		return nil, err
	}

	confirmation, err := c.WaitForConfirmation(ctx, txID, maxRounds)
	if err != nil {
		metrics.LedgerSubmissions.WithLabelValues("unconfirmed").Inc()
		log.Printf("ledger: tx %s not confirmed: %v", txID, err)
		return nil, err
	}
	metrics.LedgerSubmissions.WithLabelValues("confirmed").Inc()
	metrics.ObserveConfirmation(started)
	return confirmation, nil
}

func (c *Client) GetAssetInfo(ctx context.Context, assetID uint64) (models.Asset, error) {
	asset, err := c.node.GetAssetByID(ctx, assetID)
	if err != nil {
		return asset, networkError("asset information", err)
	}
	return asset, nil
}

func (c *Client) GetTransaction(ctx context.Context, txID string) (models.TransactionResponse, error) {
	tx, err := c.indexer.LookupTransaction(ctx, txID)
	if err != nil {
		return tx, networkError("lookup transaction", err)
	}
	return tx, nil
}

func (c *Client) GetAccountAssets(ctx context.Context, address string) ([]models.AssetHolding, error) {
	account, err := c.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, err
	}
	if account.Assets == nil {
		return []models.AssetHolding{}, nil
	}
	return account.Assets, nil
}

func (c *Client) CheckAccountExists(ctx context.Context, address string) (bool, error) {
	_, err := c.GetAccountInfo(ctx, address)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
