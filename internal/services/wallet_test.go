package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftwallet/internal/pkg/sealer"
)

func newTestServiceWallet(t *testing.T) (*ServiceWallet, *memWalletStore, *int) {
	t.Helper()
	store := newMemWalletStore()
	service, err := newServiceWallet(store, &fakeLocker{}, "test-secret")
	require.NoError(t, err)

	generated := 0
	service.generate = func() crypto.Account {
		generated++
		return crypto.GenerateAccount()
	}
	return service, store, &generated
}

func TestNewServiceWalletRequiresSecret(t *testing.T) {
	_, err := newServiceWallet(newMemWalletStore(), &fakeLocker{}, "")
	require.ErrorIs(t, err, ErrConfig)
}

func TestCreateWalletIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service, _, generated := newTestServiceWallet(t)

	first, created, err := service.CreateWallet(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.IsActive)

	second, created, err := service.CreateWallet(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Address, second.Address)
	assert.Equal(t, 1, *generated)
}

func TestCreateWalletSealsPhrase(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestServiceWallet(t)

	wallet, _, err := service.CreateWallet(ctx, "user-1")
	require.NoError(t, err)

	parts := strings.Split(wallet.EncryptedRecoveryPhrase, ":")
	require.Len(t, parts, 2)
	assert.NotContains(t, wallet.EncryptedRecoveryPhrase, " ")

	account, err := service.GetSigningAccountFromUserID(ctx, "user-1")
	require.NoError(t, err)
	defer account.Wipe()
	assert.Equal(t, wallet.Address, account.Address())

	byID, err := service.GetSigningAccountFromWallet(ctx, wallet.ID)
	require.NoError(t, err)
	defer byID.Wipe()
	assert.Equal(t, wallet.Address, byID.Address())
}

func TestCreateWalletLockFailure(t *testing.T) {
	service, err := newServiceWallet(newMemWalletStore(), &fakeLocker{err: errors.New("busy")}, "test-secret")
	require.NoError(t, err)

	_, _, err = service.CreateWallet(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrWalletLocked)
}

func TestWalletLookups(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestServiceWallet(t)

	wallet, err := service.GetWalletByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, wallet)

	_, err = service.GetSigningAccountFromUserID(ctx, "nobody")
	require.ErrorIs(t, err, ErrNoWallet)

	_, err = service.GetWalletByID(ctx, "missing")
	require.ErrorIs(t, err, ErrWalletNotFound)

	_, err = service.GetSigningAccountFromWallet(ctx, "missing")
	require.ErrorIs(t, err, ErrWalletNotFound)
}

func TestDeactivateWallet(t *testing.T) {
	ctx := context.Background()
	service, store, generated := newTestServiceWallet(t)

	wallet, _, err := service.CreateWallet(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, service.DeactivateWallet(ctx, wallet.ID))
	require.ErrorIs(t, service.DeactivateWallet(ctx, "missing"), ErrWalletNotFound)

	active, err := service.GetWalletByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, active)

	// the row is kept
	kept, err := service.GetWalletByID(ctx, wallet.ID)
	require.NoError(t, err)
	assert.False(t, kept.IsActive)

	replacement, created, err := service.CreateWallet(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, wallet.Address, replacement.Address)
	assert.Equal(t, 2, *generated)
	assert.Len(t, store.wallets, 2)
}

func TestCorruptedPhraseIsReported(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestServiceWallet(t)

	wallet, _, err := service.CreateWallet(ctx, "user-1")
	require.NoError(t, err)

	w := store.wallets[wallet.ID]
	w.EncryptedRecoveryPhrase = "no-separator"
	store.wallets[wallet.ID] = w

	_, err = service.GetSigningAccountFromUserID(ctx, "user-1")
	require.ErrorIs(t, err, sealer.ErrInvalidFormat)
}

func TestWrongSecretCannotOpen(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newTestServiceWallet(t)

	_, _, err := service.CreateWallet(ctx, "user-1")
	require.NoError(t, err)

	other, err := newServiceWallet(store, &fakeLocker{}, "another-secret")
	require.NoError(t, err)
	_, err = other.GetSigningAccountFromUserID(ctx, "user-1")
	require.ErrorIs(t, err, sealer.ErrDecrypt)
}
