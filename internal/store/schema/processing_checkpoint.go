package schema

import "time"

// ProcessingCheckpoint represents the processing_checkpoints table: the last
// block fully processed for a watched (contract type, event) pair on a chain
type ProcessingCheckpoint struct {
	ContractType string    `gorm:"column:contract_type;primaryKey"`
	EventName    string    `gorm:"column:event_name;primaryKey"`
	Chain        string    `gorm:"column:chain;primaryKey"`
	BlockNumber  uint64    `gorm:"column:block_number;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the ProcessingCheckpoint model
func (ProcessingCheckpoint) TableName() string {
	return "processing_checkpoints"
}
