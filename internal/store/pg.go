package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-nft-lifecycle/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool applies pool settings to the underlying sql.DB.
// Zero values fall back to 20 open, 5 idle, 5m lifetime and 10m idle time.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	return nil
}

func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// GetOffchainItemsByOwner lists the offchain items of a wallet, most recently updated first
func (s *pgStore) GetOffchainItemsByOwner(ctx context.Context, wallet string) ([]schema.OffchainItem, error) {
	var items []schema.OffchainItem
	err := s.db.WithContext(ctx).
		Where("owner_wallet = ?", strings.ToLower(wallet)).
		Order("updated_at DESC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get offchain items by owner: %w", err)
	}
	return items, nil
}

// GetOffchainItem retrieves an item by id
func (s *pgStore) GetOffchainItem(ctx context.Context, id string) (*schema.OffchainItem, error) {
	var item schema.OffchainItem
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get offchain item: %w", err)
	}
	return &item, nil
}

// GetOffchainItemsByIDs retrieves the items with the given ids
func (s *pgStore) GetOffchainItemsByIDs(ctx context.Context, ids []string) ([]schema.OffchainItem, error) {
	if len(ids) == 0 {
		return []schema.OffchainItem{}, nil
	}

	var items []schema.OffchainItem
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get offchain items by ids: %w", err)
	}
	return items, nil
}

// UpsertOffchainItems inserts items or refreshes their metadata
func (s *pgStore) UpsertOffchainItems(ctx context.Context, inputs []UpsertOffchainItemInput) error {
	if len(inputs) == 0 {
		return nil
	}

	now := time.Now()
	items := make([]schema.OffchainItem, len(inputs))
	for i, in := range inputs {
		rarity := in.Rarity
		if rarity == "" {
			rarity = "common"
		}
		items[i] = schema.OffchainItem{
			ID:          in.ID,
			OwnerWallet: strings.ToLower(in.OwnerWallet),
			Name:        in.Name,
			Description: in.Description,
			Image:       in.Image,
			ContentHash: in.ContentHash,
			Rarity:      rarity,
			Tier:        in.Tier,
			Platform:    in.Platform,
			Attributes:  in.Attributes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"owner_wallet", "name", "description", "image", "content_hash",
				"rarity", "tier", "platform", "attributes", "updated_at",
			}),
		}).
		CreateInBatches(items, 500).Error
	if err != nil {
		return fmt.Errorf("failed to upsert offchain items: %w", err)
	}
	return nil
}

// GetClaimRecord retrieves the claim of an item by a wallet
func (s *pgStore) GetClaimRecord(ctx context.Context, wallet, itemID string) (*schema.ClaimRecord, error) {
	var rec schema.ClaimRecord
	err := s.db.WithContext(ctx).
		Where("wallet = ? AND item_id = ?", strings.ToLower(wallet), itemID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get claim record: %w", err)
	}
	return &rec, nil
}

// GetClaimRecordsByWallet lists every claim of a wallet, newest first
func (s *pgStore) GetClaimRecordsByWallet(ctx context.Context, wallet string) ([]schema.ClaimRecord, error) {
	var recs []schema.ClaimRecord
	err := s.db.WithContext(ctx).
		Where("wallet = ?", strings.ToLower(wallet)).
		Order("claimed_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get claim records: %w", err)
	}
	return recs, nil
}

// CreateClaimRecord inserts a claim, keeping the existing row on conflict
func (s *pgStore) CreateClaimRecord(ctx context.Context, input CreateClaimRecordInput) (*schema.ClaimRecord, bool, error) {
	kind := input.Kind
	if kind == "" {
		kind = schema.ClaimKindMint
	}
	claimedAt := input.ClaimedAt
	if claimedAt.IsZero() {
		claimedAt = time.Now()
	}

	rec := schema.ClaimRecord{
		ID:              ulid.Make().String(),
		Wallet:          strings.ToLower(input.Wallet),
		ItemID:          input.ItemID,
		Chain:           input.Chain,
		ContractAddress: strings.ToLower(input.ContractAddress),
		TokenID:         input.TokenID,
		TxHash:          input.TxHash,
		Kind:            kind,
		ClaimedAt:       claimedAt,
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wallet"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(&rec)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create claim record: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return &rec, true, nil
	}

	existing, err := s.GetClaimRecord(ctx, rec.Wallet, rec.ItemID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("claim record for %s/%s vanished after conflict", rec.Wallet, rec.ItemID)
	}
	return existing, false, nil
}
