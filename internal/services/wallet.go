package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"nftwallet/internal/interfaces"
	"nftwallet/internal/models"
	"nftwallet/internal/pkg/metrics"
	"nftwallet/internal/pkg/sealer"
	"nftwallet/internal/pkg/signer"
)

// SignerProvider is what the asset orchestrator needs from the wallet manager.
type SignerProvider interface {
	GetWalletByUserID(ctx context.Context, userID string) (*models.Wallet, error)
	GetSigningAccountFromUserID(ctx context.Context, userID string) (*signer.Account, error)
}

type ServiceWallet struct {
	store    WalletStore
	locker   interfaces.Locker
	sealer   *sealer.Sealer
	generate func() crypto.Account
}

func NewServiceWallet(container *do.Injector) (*ServiceWallet, error) {
	envs, err := do.InvokeNamed[map[string]string](container, "envs")
	if err != nil {
		return nil, err
	}

	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	locker, err := do.Invoke[interfaces.Locker](container)
	if err != nil {
		return nil, err
	}

	return newServiceWallet(NewBunWalletStore(db), locker, envs[CONFIG_WALLET_ENCRYPTION_KEY])
}

func newServiceWallet(store WalletStore, locker interfaces.Locker, secret string) (*ServiceWallet, error) {
	s, err := sealer.New(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return &ServiceWallet{
		store:    store,
		locker:   locker,
		sealer:   s,
		generate: crypto.GenerateAccount,
	}, nil
}

// CreateWallet returns the user's active wallet, generating one when there is
// none. created reports whether a new key was generated.
func (service *ServiceWallet) CreateWallet(ctx context.Context, userID string) (*models.Wallet, bool, error) {
	unlock, err := service.locker.Lock(ctx, LockKeyCreateWallet(userID))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrWalletLocked, err)
	}
	defer unlock()

	existing, err := service.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	account := service.generate()
	phrase, err := mnemonic.FromPrivateKey(account.PrivateKey)
	if err != nil {
		return nil, false, fmt.Errorf("derive recovery phrase: %w", err)
	}

	sealed, err := service.sealer.Seal(phrase)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	wallet, err := service.store.CreateWallet(ctx, &models.Wallet{
		ID:                      uuid.NewString(),
		UserID:                  userID,
		Address:                 account.Address.String(),
		EncryptedRecoveryPhrase: sealed,
		IsActive:                true,
		CreatedAt:               now,
		UpdatedAt:               now,
	})
	if err != nil {
		return nil, false, err
	}

	metrics.WalletsCreated.Inc()
	log.Printf("wallet: created %s for user %s", wallet.Address, userID)
	return wallet, true, nil
}

// GetWalletByUserID returns (nil, nil) when the user has no active wallet.
func (service *ServiceWallet) GetWalletByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	wallet, err := service.store.FindActiveWalletByUserID(ctx, userID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (service *ServiceWallet) GetWalletByID(ctx context.Context, walletID string) (*models.Wallet, error) {
	wallet, err := service.store.FindWalletByID(ctx, walletID)
	if isNoRows(err) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// The returned account must be wiped by the caller once signing is done.
func (service *ServiceWallet) GetSigningAccountFromWallet(ctx context.Context, walletID string) (*signer.Account, error) {
	wallet, err := service.GetWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	return service.openAccount(wallet)
}

func (service *ServiceWallet) GetSigningAccountFromUserID(ctx context.Context, userID string) (*signer.Account, error) {
	wallet, err := service.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, ErrNoWallet
	}
	return service.openAccount(wallet)
}

func (service *ServiceWallet) DeactivateWallet(ctx context.Context, walletID string) error {
	rows, err := service.store.DeactivateWallet(ctx, walletID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWalletNotFound
	}
	log.Printf("wallet: deactivated %s", walletID)
	return nil
}

func (service *ServiceWallet) openAccount(wallet *models.Wallet) (*signer.Account, error) {
	phrase, err := service.sealer.Open(wallet.EncryptedRecoveryPhrase)
	if err != nil {
		log.Printf("wallet: cannot open recovery phrase of %s: %v", wallet.ID, err)
		return nil, err
	}
	account, err := signer.FromMnemonic(phrase)
	if err != nil {
		return nil, err
	}
	if account.Address() != wallet.Address {
		account.Wipe()
		return nil, fmt.Errorf("wallet %s: recovered key does not match address", wallet.ID)
	}
	return account, nil
}
