package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Wallet struct {
	bun.BaseModel           `bun:"table:wallets"`
	ID                      string    `bun:"id,pk" json:"id"`
	UserID                  string    `bun:"user_id,notnull" json:"user_id"`
	Address                 string    `bun:"address,notnull,unique" json:"address"`
	EncryptedRecoveryPhrase string    `bun:"encrypted_recovery_phrase,notnull" json:"-"`
	IsActive                bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt               time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt               time.Time `bun:"updated_at" json:"updated_at"`
}
