package schema

import (
	"time"

	"gorm.io/datatypes"
)

// EventLog represents the event_logs table. Unlike EventRecord it keeps
// every log of a transaction, keyed by (chain, contract_address, tx_hash, log_index).
type EventLog struct {
	ID              int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Chain           string         `gorm:"column:chain;not null;uniqueIndex:idx_event_log_key"`
	ContractAddress string         `gorm:"column:contract_address;not null;uniqueIndex:idx_event_log_key"`
	EventName       string         `gorm:"column:event_name;not null"`
	TxHash          string         `gorm:"column:tx_hash;not null;uniqueIndex:idx_event_log_key"`
	LogIndex        uint           `gorm:"column:log_index;not null;uniqueIndex:idx_event_log_key"`
	BlockNumber     uint64         `gorm:"column:block_number;not null"`
	Payload         datatypes.JSON `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt       time.Time      `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the EventLog model
func (EventLog) TableName() string {
	return "event_logs"
}
