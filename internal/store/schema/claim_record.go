package schema

import "time"

// ClaimKind distinguishes real mints from bookkeeping entries
type ClaimKind string

const (
	ClaimKindMint        ClaimKind = "mint"
	ClaimKindBookkeeping ClaimKind = "bookkeeping"
)

// ClaimRecord represents the claim_records table. Rows are insert-only;
// (wallet, item_id) is unique.
type ClaimRecord struct {
	// ID is a ULID
	ID              string    `gorm:"column:id;primaryKey;type:text"`
	Wallet          string    `gorm:"column:wallet;not null;uniqueIndex:idx_claim_wallet_item"`
	ItemID          string    `gorm:"column:item_id;not null;uniqueIndex:idx_claim_wallet_item"`
	Chain           string    `gorm:"column:chain;not null"`
	ContractAddress string    `gorm:"column:contract_address;not null"`
	TokenID         string    `gorm:"column:token_id;not null"`
	TxHash          string    `gorm:"column:tx_hash;not null"`
	Kind            ClaimKind `gorm:"column:kind;not null;default:mint"`
	ClaimedAt       time.Time `gorm:"column:claimed_at;not null"`
}

// TableName specifies the table name for the ClaimRecord model
func (ClaimRecord) TableName() string {
	return "claim_records"
}
