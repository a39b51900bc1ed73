package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/go-redis/redis_rate/v10"
	"github.com/segmentio/encoding/json"

	"nftwallet/internal/ledger"
	"nftwallet/internal/models"
	"nftwallet/internal/pkg/caching"
)

type memWalletStore struct {
	mu      sync.Mutex
	wallets map[string]models.Wallet
}

func newMemWalletStore() *memWalletStore {
	return &memWalletStore{wallets: map[string]models.Wallet{}}
}

func (s *memWalletStore) FindActiveWalletByUserID(_ context.Context, userID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.UserID == userID && w.IsActive {
			w := w
			return &w, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memWalletStore) FindWalletByID(_ context.Context, walletID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &w, nil
}

func (s *memWalletStore) CreateWallet(_ context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[wallet.ID] = *wallet
	return wallet, nil
}

func (s *memWalletStore) DeactivateWallet(_ context.Context, walletID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return 0, nil
	}
	w.IsActive = false
	s.wallets[walletID] = w
	return 1, nil
}

type memAssetStore struct {
	mu      sync.Mutex
	assets  map[uint64]models.Asset
	records []models.AssetTransaction
}

func newMemAssetStore() *memAssetStore {
	return &memAssetStore{assets: map[uint64]models.Asset{}}
}

func (s *memAssetStore) put(asset models.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[asset.AssetID] = asset
}

func (s *memAssetStore) get(assetID uint64) (models.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[assetID]
	return a, ok
}

func (s *memAssetStore) FindAssetByID(_ context.Context, assetID uint64) (*models.Asset, error) {
	a, ok := s.get(assetID)
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (s *memAssetStore) FindAssetsByOwner(_ context.Context, owner string) ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Asset{}
	for _, a := range s.assets {
		if a.CurrentOwnerAddress == owner {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAssetStore) FindAssetsForSale(context.Context) ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Asset{}
	for _, a := range s.assets {
		if a.ForSale {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAssetStore) FindAssetTransactions(_ context.Context, assetID uint64) ([]models.AssetTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AssetTransaction{}
	for _, r := range s.records {
		if r.AssetID == assetID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memAssetStore) UpdateAssetSale(_ context.Context, assetID uint64, owner string, forSale bool, price *uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[assetID]
	if !ok || a.CurrentOwnerAddress != owner {
		return 0, nil
	}
	a.ForSale = forSale
	a.Price = price
	s.assets[assetID] = a
	return 1, nil
}

func (s *memAssetStore) RecordMint(_ context.Context, asset *models.Asset, record *models.AssetTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[asset.AssetID]; ok {
		return errors.New("duplicate asset")
	}
	s.assets[asset.AssetID] = *asset
	s.records = append(s.records, *record)
	return nil
}

func (s *memAssetStore) RecordTransfer(_ context.Context, assetID uint64, from, to string, record *models.AssetTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[assetID]
	if !ok || a.CurrentOwnerAddress != from {
		return ErrOwnershipConflict
	}
	a.CurrentOwnerAddress = to
	a.ForSale = false
	a.Price = nil
	s.assets[assetID] = a
	s.records = append(s.records, *record)
	return nil
}

type fakeLocker struct {
	err   error
	locks []string
}

func (l *fakeLocker) Lock(_ context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locks = append(l.locks, key)
	return func() {}, nil
}

type fakeLimiter struct {
	err    error
	limits []redis_rate.Limit
}

func (l *fakeLimiter) Allow(_ context.Context, _ string, limit redis_rate.Limit) error {
	l.limits = append(l.limits, limit)
	return l.err
}

type fakeLedger struct {
	confirmation *ledger.Confirmation
	err          error
	submitted    [][]byte
	beforeReturn func()
}

func (l *fakeLedger) GetTransactionParams(context.Context) (types.SuggestedParams, error) {
	return types.SuggestedParams{
		Fee:             0,
		GenesisID:       "testnet-v1.0",
		GenesisHash:     make([]byte, 32),
		FirstRoundValid: 1000,
		LastRoundValid:  2000,
		MinFee:          1000,
	}, nil
}

func (l *fakeLedger) SubmitSigned(_ context.Context, signed []byte, _ int) (*ledger.Confirmation, error) {
	l.submitted = append(l.submitted, signed)
	if l.beforeReturn != nil {
		l.beforeReturn()
	}
	if l.err != nil {
		return nil, l.err
	}
	c := *l.confirmation
	return &c, nil
}

type fakeUploader struct {
	files       [][]byte
	docs        []any
	err         error
	metadataURL string
}

func (u *fakeUploader) UploadFile(_ context.Context, name string, data []byte) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.files = append(u.files, data)
	return "https://gw.example/ipfs/QmImage", nil
}

func (u *fakeUploader) UploadJSON(_ context.Context, name string, v any) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.docs = append(u.docs, v)
	if u.metadataURL != "" {
		return u.metadataURL, nil
	}
	return "https://gw.example/ipfs/QmMeta", nil
}

type jsonCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
}

func newJSONCache() *jsonCache {
	return &jsonCache{items: map[string][]byte{}}
}

func (c *jsonCache) Get(_ context.Context, key string, target any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.items[key]
	if !ok {
		return caching.ErrCacheMiss
	}
	return json.Unmarshal(b, target)
}

func (c *jsonCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	return nil
}

func (c *jsonCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func newAddress() string {
	return crypto.GenerateAccount().Address.String()
}
