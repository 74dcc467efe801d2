package schema

import (
	"time"

	"gorm.io/datatypes"
)

// EventRecord represents the event_records table. A contract event is stored
// once per (contract_address, event_name, tx_hash).
type EventRecord struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Chain           string    `gorm:"column:chain;not null"`
	ContractType    string    `gorm:"column:contract_type;not null"`
	ContractAddress string    `gorm:"column:contract_address;not null;uniqueIndex:idx_event_key"`
	EventName       string    `gorm:"column:event_name;not null;uniqueIndex:idx_event_key"`
	TxHash          string    `gorm:"column:tx_hash;not null;uniqueIndex:idx_event_key"`
	BlockNumber     uint64    `gorm:"column:block_number;not null"`
	LogIndex        uint      `gorm:"column:log_index;not null"`
	Timestamp       time.Time `gorm:"column:timestamp;not null"`
	// Payload is the decoded event arguments in canonical JSON form
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb;not null"`
	Processed bool           `gorm:"column:processed;not null;default:false"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the EventRecord model
func (EventRecord) TableName() string {
	return "event_records"
}
