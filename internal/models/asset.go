package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Asset struct {
	bun.BaseModel       `bun:"table:assets"`
	AssetID             uint64    `bun:"asset_id,pk" json:"asset_id"`
	Name                string    `bun:"name,notnull" json:"name"`
	Description         string    `bun:"description" json:"description"`
	ImageURL            string    `bun:"image_url,notnull" json:"image_url"`
	MetadataURL         string    `bun:"metadata_url,notnull" json:"metadata_url"`
	CreatorAddress      string    `bun:"creator_address,notnull" json:"creator_address"`
	CurrentOwnerAddress string    `bun:"current_owner_address,notnull" json:"current_owner_address"`
	ForSale             bool      `bun:"for_sale,notnull" json:"for_sale"`
	Price               *uint64   `bun:"price" json:"price"` // micro-units, set only while ForSale
	CreatedAt           time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt           time.Time `bun:"updated_at" json:"updated_at"`
}

// AssetMetadata is the JSON document pinned next to the artwork and referenced
// by the asset's on-chain URL.
type AssetMetadata struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Properties  map[string]any `json:"properties"`
}
