package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TransactionKindMint     = "mint"
	TransactionKindBuy      = "buy"
	TransactionKindTransfer = "transfer"
)

type AssetTransaction struct {
	bun.BaseModel `bun:"table:asset_transactions"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	AssetID       uint64    `bun:"asset_id,notnull" json:"asset_id"`
	TxID          string    `bun:"tx_id,notnull" json:"tx_id"`
	FromAddress   *string   `bun:"from_address" json:"from_address"`
	ToAddress     string    `bun:"to_address,notnull" json:"to_address"`
	Kind          string    `bun:"kind,notnull" json:"kind"`
	Amount        *uint64   `bun:"amount" json:"amount"`
	BlockNumber   uint64    `bun:"block_number,notnull" json:"block_number"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
