package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNetwork             = errors.New("ledger: network error")
	ErrAccountNotFound     = errors.New("ledger: account does not exist")
	ErrConfirmationTimeout = errors.New("ledger: transaction not confirmed within round budget")
	ErrTransactionRejected = errors.New("ledger: transaction rejected by pool")
)

// messages the node uses when an address has never been funded
var accountMissingMarkers = []string{
	"account does not exist",
	"no accounts found",
}

func isAccountMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range accountMissingMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func networkError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrNetwork, op, err)
}

// PendingError carries the id of a submitted transaction whose outcome is
// unknown, so callers can look it up later.
type PendingError struct {
	TxID string
	Err  error
}

func (e *PendingError) Error() string {
	return fmt.Sprintf("tx %s: %v", e.TxID, e.Err)
}

func (e *PendingError) Unwrap() error {
	return e.Err
}
