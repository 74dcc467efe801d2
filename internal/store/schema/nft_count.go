package schema

import "time"

// NFTCount represents the nft_counts table, derived from Transfer event records
type NFTCount struct {
	Wallet          string    `gorm:"column:wallet;primaryKey"`
	Chain           string    `gorm:"column:chain;primaryKey"`
	ContractAddress string    `gorm:"column:contract_address;primaryKey"`
	Count           int64     `gorm:"column:count;not null;default:0"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the NFTCount model
func (NFTCount) TableName() string {
	return "nft_counts"
}
