package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-nft-lifecycle/internal/store/schema"
)

// UpsertEventRecord stores an event once per (contract, event name, tx hash)
func (s *pgStore) UpsertEventRecord(ctx context.Context, input CreateEventRecordInput) (*schema.EventRecord, bool, error) {
	rec := schema.EventRecord{
		Chain:           input.Chain,
		ContractType:    input.ContractType,
		ContractAddress: strings.ToLower(input.ContractAddress),
		EventName:       input.EventName,
		TxHash:          strings.ToLower(input.TxHash),
		BlockNumber:     input.BlockNumber,
		LogIndex:        input.LogIndex,
		Timestamp:       input.Timestamp,
		Payload:         datatypes.JSON(input.Payload),
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract_address"}, {Name: "event_name"}, {Name: "tx_hash"}},
			DoNothing: true,
		}).
		Create(&rec)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create event record: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return &rec, true, nil
	}

	var existing schema.EventRecord
	err := s.db.WithContext(ctx).
		Where("contract_address = ? AND event_name = ? AND tx_hash = ?", rec.ContractAddress, rec.EventName, rec.TxHash).
		First(&existing).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing event record: %w", err)
	}
	return &existing, false, nil
}

// MarkEventProcessed flags an event as handled
func (s *pgStore) MarkEventProcessed(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.EventRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed":  true,
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

// GetCheckpoint returns the last processed block of a watched pair
func (s *pgStore) GetCheckpoint(ctx context.Context, key CheckpointKey) (uint64, bool, error) {
	var cp schema.ProcessingCheckpoint
	err := s.db.WithContext(ctx).
		Where("contract_type = ? AND event_name = ? AND chain = ?", key.ContractType, key.EventName, key.Chain).
		First(&cp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get checkpoint: %w", err)
	}
	return cp.BlockNumber, true, nil
}

// AdvanceCheckpoint moves the checkpoint forward, keeping the larger block on conflict
func (s *pgStore) AdvanceCheckpoint(ctx context.Context, key CheckpointKey, block uint64) error {
	cp := schema.ProcessingCheckpoint{
		ContractType: key.ContractType,
		EventName:    key.EventName,
		Chain:        key.Chain,
		BlockNumber:  block,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "contract_type"}, {Name: "event_name"}, {Name: "chain"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"block_number": gorm.Expr("GREATEST(processing_checkpoints.block_number, EXCLUDED.block_number)"),
				"updated_at":   gorm.Expr("now()"),
			}),
		}).
		Create(&cp).Error
	if err != nil {
		return fmt.Errorf("failed to advance checkpoint: %w", err)
	}
	return nil
}

// RecordEventLog stores a single log, replays are ignored
func (s *pgStore) RecordEventLog(ctx context.Context, input CreateEventRecordInput) error {
	row := schema.EventLog{
		Chain:           input.Chain,
		ContractAddress: strings.ToLower(input.ContractAddress),
		EventName:       input.EventName,
		TxHash:          strings.ToLower(input.TxHash),
		LogIndex:        input.LogIndex,
		BlockNumber:     input.BlockNumber,
		Payload:         datatypes.JSON(input.Payload),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chain"}, {Name: "contract_address"}, {Name: "tx_hash"}, {Name: "log_index"}},
			DoNothing: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to record event log: %w", err)
	}
	return nil
}

// GetEventLogsByTx lists the logs of an event emitted by one transaction, in log order
func (s *pgStore) GetEventLogsByTx(ctx context.Context, chain, contract, eventName, txHash string) ([]schema.EventLog, error) {
	var logs []schema.EventLog
	err := s.db.WithContext(ctx).
		Where("chain = ? AND contract_address = ? AND event_name = ? AND tx_hash = ?",
			chain, strings.ToLower(contract), eventName, strings.ToLower(txHash)).
		Order("log_index ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get event logs: %w", err)
	}
	return logs, nil
}

// recomputeCountSQL counts the tokens whose latest Transfer log went to the wallet
const recomputeCountSQL = `
SELECT COUNT(*) FROM (
	SELECT DISTINCT ON (payload->>'tokenId') payload->>'to' AS owner
	FROM event_logs
	WHERE chain = ? AND contract_address = ? AND event_name = 'Transfer'
	ORDER BY payload->>'tokenId', block_number DESC, log_index DESC
) latest
WHERE owner = ?`

// RecomputeNFTCount recounts the tokens a wallet holds on a contract from Transfer logs
func (s *pgStore) RecomputeNFTCount(ctx context.Context, chain, contract, wallet string) (int64, error) {
	contract = strings.ToLower(contract)
	wallet = strings.ToLower(wallet)

	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(recomputeCountSQL, chain, contract, wallet).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to count transfers: %w", err)
		}

		row := schema.NFTCount{
			Wallet:          wallet,
			Chain:           chain,
			ContractAddress: contract,
			Count:           count,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "wallet"}, {Name: "chain"}, {Name: "contract_address"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      count,
				"updated_at": gorm.Expr("now()"),
			}),
		}).Create(&row).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to recompute nft count: %w", err)
	}
	return count, nil
}

// GetNFTCount returns the last computed count, zero when never computed
func (s *pgStore) GetNFTCount(ctx context.Context, chain, contract, wallet string) (int64, error) {
	var row schema.NFTCount
	err := s.db.WithContext(ctx).
		Where("wallet = ? AND chain = ? AND contract_address = ?", strings.ToLower(wallet), chain, strings.ToLower(contract)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get nft count: %w", err)
	}
	return row.Count, nil
}
