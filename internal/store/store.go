package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-nft-lifecycle/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Ping checks the database connection
	Ping(ctx context.Context) error

	// GetOffchainItemsByOwner lists the offchain items of a wallet, most recently updated first
	GetOffchainItemsByOwner(ctx context.Context, wallet string) ([]schema.OffchainItem, error)
	// GetOffchainItem retrieves an item by id, nil when it does not exist
	GetOffchainItem(ctx context.Context, id string) (*schema.OffchainItem, error)
	// GetOffchainItemsByIDs retrieves the items with the given ids
	GetOffchainItemsByIDs(ctx context.Context, ids []string) ([]schema.OffchainItem, error)
	// UpsertOffchainItems inserts items or refreshes their metadata
	UpsertOffchainItems(ctx context.Context, inputs []UpsertOffchainItemInput) error

	// GetClaimRecord retrieves the claim of an item by a wallet, nil when unclaimed
	GetClaimRecord(ctx context.Context, wallet, itemID string) (*schema.ClaimRecord, error)
	// GetClaimRecordsByWallet lists every claim of a wallet
	GetClaimRecordsByWallet(ctx context.Context, wallet string) ([]schema.ClaimRecord, error)
	// CreateClaimRecord inserts a claim. When (wallet, item) is already
	// claimed the existing row is returned with created=false.
	CreateClaimRecord(ctx context.Context, input CreateClaimRecordInput) (record *schema.ClaimRecord, created bool, err error)

	// UpsertEventRecord stores an event once per (contract, event name, tx hash)
	// and returns the stored row, which may predate this call
	UpsertEventRecord(ctx context.Context, input CreateEventRecordInput) (record *schema.EventRecord, created bool, err error)
	// MarkEventProcessed flags an event as handled
	MarkEventProcessed(ctx context.Context, id int64) error
	// RecordEventLog stores a single log once per (chain, contract, tx hash, log index)
	RecordEventLog(ctx context.Context, input CreateEventRecordInput) error
	// GetEventLogsByTx lists the logs of an event emitted by one transaction, in log order
	GetEventLogsByTx(ctx context.Context, chain, contract, eventName, txHash string) ([]schema.EventLog, error)

	// GetCheckpoint returns the last processed block of a watched pair; ok is false when none exists
	GetCheckpoint(ctx context.Context, key CheckpointKey) (block uint64, ok bool, err error)
	// AdvanceCheckpoint moves the checkpoint forward. It never moves it backward.
	AdvanceCheckpoint(ctx context.Context, key CheckpointKey, block uint64) error

	// RecomputeNFTCount recounts the tokens a wallet holds on a contract from Transfer logs
	RecomputeNFTCount(ctx context.Context, chain, contract, wallet string) (int64, error)
	// GetNFTCount returns the last computed count
	GetNFTCount(ctx context.Context, chain, contract, wallet string) (int64, error)
}

// UpsertOffchainItemInput is the input for UpsertOffchainItems
type UpsertOffchainItemInput struct {
	ID          string
	OwnerWallet string
	Name        string
	Description string
	Image       string
	ContentHash string
	Rarity      string
	Tier        string
	Platform    string
	Attributes  datatypes.JSON
}

// CreateClaimRecordInput is the input for CreateClaimRecord
type CreateClaimRecordInput struct {
	Wallet          string
	ItemID          string
	Chain           string
	ContractAddress string
	TokenID         string
	TxHash          string
	Kind            schema.ClaimKind
	ClaimedAt       time.Time
}

// CreateEventRecordInput is the input for UpsertEventRecord and RecordEventLog.
// Payload must already be in canonical JSON form.
type CreateEventRecordInput struct {
	Chain           string
	ContractType    string
	ContractAddress string
	EventName       string
	TxHash          string
	BlockNumber     uint64
	LogIndex        uint
	Timestamp       time.Time
	Payload         []byte
}

// CheckpointKey identifies a watched (contract type, event) pair on a chain
type CheckpointKey struct {
	ContractType string
	EventName    string
	Chain        string
}
