package lifecycle

import (
	"encoding/json"

	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/store/schema"
)

func offchainFromSchema(row schema.OffchainItem) domain.OffchainItem {
	return domain.OffchainItem{
		ID:          row.ID,
		OwnerWallet: row.OwnerWallet,
		ContentHash: row.ContentHash,
		Metadata:    metadataFromSchema(row),
		Status:      domain.StatusOffchain,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func metadataFromSchema(row schema.OffchainItem) domain.NFTMetadata {
	meta := domain.NFTMetadata{
		Name:        row.Name,
		Description: row.Description,
		Image:       row.Image,
		Rarity:      domain.ParseRarity(row.Rarity),
		Tier:        row.Tier,
		Platform:    row.Platform,
	}
	if len(row.Attributes) > 0 {
		var attrs []domain.Attribute
		if err := json.Unmarshal(row.Attributes, &attrs); err == nil {
			meta.Attributes = attrs
		}
	}
	return meta
}

func onchainFromClaim(rec schema.ClaimRecord, meta domain.NFTMetadata) domain.OnchainItem {
	return domain.OnchainItem{
		ID:              rec.ItemID,
		Metadata:        meta,
		TokenID:         rec.TokenID,
		ContractAddress: rec.ContractAddress,
		TxHash:          rec.TxHash,
		OwnerWallet:     rec.Wallet,
		Chain:           domain.Chain(rec.Chain),
		Status:          domain.StatusOnchain,
		Source:          domain.SourceClaimRecord,
		ModifiedAt:      rec.ClaimedAt,
	}
}

// claimKey identifies the onchain token a claim produced
func claimKey(chain domain.Chain, contract, tokenID string) string {
	return string(chain) + "|" + domain.NormalizeAddress(contract) + "|" + tokenID
}
