package ledger

import (
	"context"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/indexer"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Node is the subset of the algod API the facade needs.
type Node interface {
	Status(ctx context.Context) (models.NodeStatus, error)
	StatusAfterBlock(ctx context.Context, round uint64) (models.NodeStatus, error)
	AccountInformation(ctx context.Context, address string) (models.Account, error)
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
	SendRawTransaction(ctx context.Context, signed []byte) (string, error)
	PendingTransactionInformation(ctx context.Context, txID string) (models.PendingTransactionInfoResponse, error)
	GetAssetByID(ctx context.Context, assetID uint64) (models.Asset, error)
}

// Indexer is the subset of the indexer API the facade needs.
type Indexer interface {
	LookupTransaction(ctx context.Context, txID string) (models.TransactionResponse, error)
}

type AlgodNode struct {
	client *algod.Client
}

func NewAlgodNode(address, token string) (*AlgodNode, error) {
	client, err := algod.MakeClient(address, token)
	if err != nil {
		return nil, err
	}
	return &AlgodNode{client}, nil
}

func (n *AlgodNode) Status(ctx context.Context) (models.NodeStatus, error) {
	return n.client.Status().Do(ctx)
}

func (n *AlgodNode) StatusAfterBlock(ctx context.Context, round uint64) (models.NodeStatus, error) {
	return n.client.StatusAfterBlock(round).Do(ctx)
}

func (n *AlgodNode) AccountInformation(ctx context.Context, address string) (models.Account, error) {
	return n.client.AccountInformation(address).Do(ctx)
}

func (n *AlgodNode) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	return n.client.SuggestedParams().Do(ctx)
}

func (n *AlgodNode) SendRawTransaction(ctx context.Context, signed []byte) (string, error) {
	return n.client.SendRawTransaction(signed).Do(ctx)
}

func (n *AlgodNode) PendingTransactionInformation(ctx context.Context, txID string) (models.PendingTransactionInfoResponse, error) {
	info, _, err := n.client.PendingTransactionInformation(txID).Do(ctx)
	return info, err
}

func (n *AlgodNode) GetAssetByID(ctx context.Context, assetID uint64) (models.Asset, error) {
	return n.client.GetAssetByID(assetID).Do(ctx)
}

type IndexerNode struct {
	client *indexer.Client
}

func NewIndexerNode(address, token string) (*IndexerNode, error) {
	client, err := indexer.MakeClient(address, token)
	if err != nil {
		return nil, err
	}
	return &IndexerNode{client}, nil
}

func (n *IndexerNode) LookupTransaction(ctx context.Context, txID string) (models.TransactionResponse, error) {
	return n.client.LookupTransaction(txID).Do(ctx)
}
