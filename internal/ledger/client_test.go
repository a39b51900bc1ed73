package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	lastRound      uint64
	confirmAfter   int
	poolError      string
	assetIndex     uint64
	accountErr     error
	account        models.Account
	sendErr        error
	pollErr        error
	onAfterBlock   func()
	polls          int
	afterBlockArgs []uint64
}

func (f *fakeNode) Status(context.Context) (models.NodeStatus, error) {
	return models.NodeStatus{LastRound: f.lastRound}, nil
}

func (f *fakeNode) StatusAfterBlock(ctx context.Context, round uint64) (models.NodeStatus, error) {
	f.afterBlockArgs = append(f.afterBlockArgs, round)
	if f.onAfterBlock != nil {
		f.onAfterBlock()
	}
	if err := ctx.Err(); err != nil {
		return models.NodeStatus{}, err
	}
	f.lastRound = round
	return models.NodeStatus{LastRound: round}, nil
}

func (f *fakeNode) AccountInformation(_ context.Context, address string) (models.Account, error) {
	if f.accountErr != nil {
		return models.Account{}, f.accountErr
	}
	account := f.account
	account.Address = address
	return account, nil
}

func (f *fakeNode) SuggestedParams(context.Context) (types.SuggestedParams, error) {
	return types.SuggestedParams{Fee: 0, MinFee: 1000, FirstRoundValid: types.Round(f.lastRound)}, nil
}

func (f *fakeNode) SendRawTransaction(context.Context, []byte) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return "TXID", nil
}

func (f *fakeNode) PendingTransactionInformation(ctx context.Context, _ string) (models.PendingTransactionInfoResponse, error) {
	f.polls++
	if err := ctx.Err(); err != nil {
		return models.PendingTransactionInfoResponse{}, err
	}
	if f.pollErr != nil {
		return models.PendingTransactionInfoResponse{}, f.pollErr
	}
	if f.poolError != "" {
		return models.PendingTransactionInfoResponse{PoolError: f.poolError}, nil
	}
	if f.confirmAfter >= 0 && f.polls > f.confirmAfter {
		return models.PendingTransactionInfoResponse{ConfirmedRound: f.lastRound, AssetIndex: f.assetIndex}, nil
	}
	return models.PendingTransactionInfoResponse{}, nil
}

func (f *fakeNode) GetAssetByID(_ context.Context, assetID uint64) (models.Asset, error) {
	return models.Asset{Index: assetID}, nil
}

type fakeIndexer struct{}

func (fakeIndexer) LookupTransaction(_ context.Context, txID string) (models.TransactionResponse, error) {
	return models.TransactionResponse{Transaction: models.Transaction{Id: txID}}, nil
}

func TestWaitForConfirmationImmediate(t *testing.T) {
	node := &fakeNode{lastRound: 1001, confirmAfter: 0, assetIndex: 123}
	c := NewClient(node, fakeIndexer{})

	conf, err := c.WaitForConfirmation(context.Background(), "TXID", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1001), conf.ConfirmedRound)
	assert.Equal(t, uint64(123), conf.AssetIndex)
	assert.Empty(t, node.afterBlockArgs)
}

func TestWaitForConfirmationAfterRounds(t *testing.T) {
	node := &fakeNode{lastRound: 10, confirmAfter: 3}
	c := NewClient(node, fakeIndexer{})

	conf, err := c.WaitForConfirmation(context.Background(), "TXID", 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{11, 12, 13}, node.afterBlockArgs)
	assert.Equal(t, uint64(13), conf.ConfirmedRound)
}

func TestWaitForConfirmationBound(t *testing.T) {
	tests := []struct {
		name      string
		maxRounds int
		waits     int
	}{
		{"explicit", 7, 7},
		{"single", 1, 1},
		{"default", 0, DefaultMaxRounds},
		{"negative", -3, DefaultMaxRounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &fakeNode{lastRound: 1, confirmAfter: -1}
			c := NewClient(node, fakeIndexer{})

			_, err := c.WaitForConfirmation(context.Background(), "TXID", tt.maxRounds)
			require.ErrorIs(t, err, ErrConfirmationTimeout)
			assert.Len(t, node.afterBlockArgs, tt.waits)
		})
	}
}

func TestWaitForConfirmationPoolError(t *testing.T) {
	node := &fakeNode{lastRound: 1, poolError: "overspend"}
	c := NewClient(node, fakeIndexer{})

	_, err := c.WaitForConfirmation(context.Background(), "TXID", 5)
	require.ErrorIs(t, err, ErrTransactionRejected)
	assert.Empty(t, node.afterBlockArgs)

	var pending *PendingError
	require.ErrorAs(t, err, &pending)
	assert.Equal(t, "TXID", pending.TxID)
}

func TestGetAccountInfoErrors(t *testing.T) {
	missing := &fakeNode{accountErr: errors.New("HTTP 404: {\"message\":\"account does not exist\"}")}
	_, err := NewClient(missing, fakeIndexer{}).GetAccountInfo(context.Background(), "ADDR")
	require.ErrorIs(t, err, ErrAccountNotFound)

	broken := &fakeNode{accountErr: errors.New("dial tcp: connection refused")}
	_, err = NewClient(broken, fakeIndexer{}).GetAccountInfo(context.Background(), "ADDR")
	require.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrAccountNotFound)
}

func TestCheckAccountExists(t *testing.T) {
	ctx := context.Background()

	exists, err := NewClient(&fakeNode{}, fakeIndexer{}).CheckAccountExists(ctx, "ADDR")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = NewClient(&fakeNode{accountErr: errors.New("no accounts found for address")}, fakeIndexer{}).CheckAccountExists(ctx, "ADDR")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = NewClient(&fakeNode{accountErr: errors.New("timeout")}, fakeIndexer{}).CheckAccountExists(ctx, "ADDR")
	require.ErrorIs(t, err, ErrNetwork)
}

func TestGetAccountAssets(t *testing.T) {
	node := &fakeNode{account: models.Account{Assets: []models.AssetHolding{{AssetId: 123, Amount: 1}}}}
	holdings, err := NewClient(node, fakeIndexer{}).GetAccountAssets(context.Background(), "ADDR")
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, uint64(123), holdings[0].AssetId)

	holdings, err = NewClient(&fakeNode{}, fakeIndexer{}).GetAccountAssets(context.Background(), "ADDR")
	require.NoError(t, err)
	assert.NotNil(t, holdings)
	assert.Empty(t, holdings)
}

func TestSubmitSigned(t *testing.T) {
	node := &fakeNode{lastRound: 1001, confirmAfter: 0, assetIndex: 123}
	conf, err := NewClient(node, fakeIndexer{}).SubmitSigned(context.Background(), []byte{1}, 0)
	require.NoError(t, err)
	assert.Equal(t, "TXID", conf.TxID)

	failing := &fakeNode{sendErr: errors.New("refused")}
	_, err = NewClient(failing, fakeIndexer{}).SubmitSigned(context.Background(), []byte{1}, 0)
	require.ErrorIs(t, err, ErrNetwork)
	assert.Zero(t, failing.polls)

	var pending *PendingError
	assert.False(t, errors.As(err, &pending), "nothing was sent, so there is no tx id to keep")
}

func TestGetTransaction(t *testing.T) {
	tx, err := NewClient(&fakeNode{}, fakeIndexer{}).GetTransaction(context.Background(), "TXID")
	require.NoError(t, err)
	assert.Equal(t, "TXID", tx.Transaction.Id)
}

func TestConfirmationTimeoutCarriesTxID(t *testing.T) {
	node := &fakeNode{lastRound: 1, confirmAfter: -1}
	_, err := NewClient(node, fakeIndexer{}).WaitForConfirmation(context.Background(), "PENDING", 2)

	var pending *PendingError
	require.ErrorAs(t, err, &pending)
	assert.Equal(t, "PENDING", pending.TxID)
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
}

func TestSubmitSignedOutlivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	node := &fakeNode{lastRound: 50, confirmAfter: 3, assetIndex: 77, onAfterBlock: cancel}
	conf, err := NewClient(node, fakeIndexer{}).SubmitSigned(ctx, []byte("signed"), 100)
	require.NoError(t, err)
	assert.Equal(t, "TXID", conf.TxID)
	assert.Equal(t, uint64(77), conf.AssetIndex)
	assert.Equal(t, []uint64{51, 52, 53}, node.afterBlockArgs)
}

func TestSubmitSignedCancelledCallerStillHitsRoundBudget(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	node := &fakeNode{lastRound: 1, confirmAfter: -1}
	_, err := NewClient(node, fakeIndexer{}).SubmitSigned(ctx, []byte("signed"), 4)

	var pending *PendingError
	require.ErrorAs(t, err, &pending)
	assert.Equal(t, "TXID", pending.TxID)
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
	assert.Len(t, node.afterBlockArgs, 4)
}

func TestWaitForConfirmationPollFailureKeepsTxID(t *testing.T) {
	node := &fakeNode{lastRound: 1, pollErr: errors.New("connection reset")}
	_, err := NewClient(node, fakeIndexer{}).WaitForConfirmation(context.Background(), "TXID", 5)

	var pending *PendingError
	require.ErrorAs(t, err, &pending)
	assert.Equal(t, "TXID", pending.TxID)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrConfirmationTimeout)
}
