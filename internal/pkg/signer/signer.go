// Package signer holds a reconstituted signing key for the length of one
// operation. The private key never leaves the Account value.
package signer

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

var ErrWiped = errors.New("signer: account key has been wiped")

type Account struct {
	address string
	sk      ed25519.PrivateKey
}

func FromPrivateKey(sk ed25519.PrivateKey) (*Account, error) {
	account, err := crypto.AccountFromPrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("signer: %w", err)
	}

	key := make(ed25519.PrivateKey, len(account.PrivateKey))
	copy(key, account.PrivateKey)
	return &Account{address: account.Address.String(), sk: key}, nil
}

func FromMnemonic(phrase string) (*Account, error) {
	sk, err := mnemonic.ToPrivateKey(phrase)
	if err != nil {
		return nil, fmt.Errorf("signer: recover key: %w", err)
	}
	defer wipe(sk)

	return FromPrivateKey(sk)
}

func (a *Account) Address() string {
	return a.address
}

// SignTransaction returns the transaction id and the msgpack-encoded signed
// transaction ready for submission.
func (a *Account) SignTransaction(tx types.Transaction) (string, []byte, error) {
	if len(a.sk) == 0 {
		return "", nil, ErrWiped
	}

	txID, signed, err := crypto.SignTransaction(a.sk, tx)
	if err != nil {
		return "", nil, fmt.Errorf("signer: sign transaction: %w", err)
	}
	return txID, signed, nil
}

// Wipe zeroes the key. The account cannot sign afterwards.
func (a *Account) Wipe() {
	if a == nil {
		return
	}
	wipe(a.sk)
	a.sk = nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
