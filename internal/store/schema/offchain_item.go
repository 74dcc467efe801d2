package schema

import (
	"time"

	"gorm.io/datatypes"
)

// OffchainItem represents the offchain_items table
type OffchainItem struct {
	// ID is the item identifier assigned by the issuing platform
	ID string `gorm:"column:id;primaryKey;type:text"`
	// OwnerWallet is the lower-cased wallet address owning the item
	OwnerWallet string `gorm:"column:owner_wallet;not null;index"`
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description"`
	Image       string `gorm:"column:image"`
	// ContentHash is the content address of the item's metadata document
	ContentHash string `gorm:"column:content_hash"`
	Rarity      string `gorm:"column:rarity;not null;default:common"`
	Tier        string `gorm:"column:tier"`
	Platform    string `gorm:"column:platform"`
	// Attributes holds the raw attribute list as JSON
	Attributes datatypes.JSON `gorm:"column:attributes;type:jsonb"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the OffchainItem model
func (OffchainItem) TableName() string {
	return "offchain_items"
}
