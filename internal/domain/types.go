package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents an EVM network using the CAIP-2 format, e.g. "eip155:137"
type Chain string

// ChainFromID builds the CAIP-2 identifier for an EVM chain id
func ChainFromID(id int64) Chain {
	return Chain(fmt.Sprintf("eip155:%d", id))
}

// ID returns the numeric EVM chain id
func (c Chain) ID() (int64, error) {
	ns, ref, ok := strings.Cut(string(c), ":")
	if !ok || ns != "eip155" {
		return 0, fmt.Errorf("%w: %s", ErrUnknownChain, c)
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownChain, c)
	}
	return id, nil
}

// Status is the lifecycle phase of an item. Transitions only move forward:
// offchain -> claiming -> onchain.
type Status string

const (
	StatusOffchain Status = "offchain"
	StatusClaiming Status = "claiming"
	StatusOnchain  Status = "onchain"
)

// Rarity is the rarity tier of an item
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// raritiesByRank lists tiers from highest to lowest so substring matches
// prefer the most specific word ("uncommon" before "common")
var raritiesByRank = []Rarity{RarityLegendary, RarityEpic, RarityRare, RarityUncommon, RarityCommon}

// Rank orders rarities, higher is rarer. Unknown values rank as common.
func (r Rarity) Rank() int {
	switch r {
	case RarityLegendary:
		return 4
	case RarityEpic:
		return 3
	case RarityRare:
		return 2
	case RarityUncommon:
		return 1
	default:
		return 0
	}
}

// ParseRarity normalizes a rarity string. Unknown values map to common.
func ParseRarity(s string) Rarity {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range raritiesByRank {
		if r == known {
			return r
		}
	}
	return RarityCommon
}

// RarityFromText finds a rarity word inside free text such as an item name.
// ok is false when no tier is mentioned.
func RarityFromText(text string) (Rarity, bool) {
	lower := strings.ToLower(text)
	for _, r := range raritiesByRank {
		if strings.Contains(lower, string(r)) {
			return r, true
		}
	}
	return RarityCommon, false
}

// Attribute is a single ERC-721 metadata trait
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// NFTMetadata is the typed metadata of an item. Known fields are validated
// when the document is parsed; anything else lands in Extensions.
type NFTMetadata struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	Image        string                 `json:"image,omitempty"`
	AnimationURL string                 `json:"animation_url,omitempty"`
	ExternalURL  string                 `json:"external_url,omitempty"`
	Rarity       Rarity                 `json:"rarity"`
	Tier         string                 `json:"tier,omitempty"`
	Platform     string                 `json:"platform,omitempty"`
	Attributes   []Attribute            `json:"attributes,omitempty"`
	Extensions   map[string]interface{} `json:"extensions,omitempty"`
}

// PlaceholderMetadata is used when an onchain token's metadata cannot be loaded
func PlaceholderMetadata(tokenID string) NFTMetadata {
	return NFTMetadata{
		Name:   PLACEHOLDER_NAME_PREFIX + tokenID,
		Rarity: RarityCommon,
	}
}

// OffchainItem is an item held in the internal store that has not been minted
type OffchainItem struct {
	ID          string      `json:"id"`
	OwnerWallet string      `json:"owner_wallet"`
	ContentHash string      `json:"content_hash"`
	Metadata    NFTMetadata `json:"metadata"`
	Status      Status      `json:"status"`
	Staked      bool        `json:"staked"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ItemSource tells where an onchain view was reconstructed from
type ItemSource string

const (
	SourceBlockchain  ItemSource = "blockchain"
	SourceClaimRecord ItemSource = "claim_record"
)

// OnchainItem is a minted token as seen by a wallet
type OnchainItem struct {
	ID              string      `json:"id"`
	Metadata        NFTMetadata `json:"metadata"`
	TokenID         string      `json:"token_id"`
	ContractAddress string      `json:"contract_address"`
	TxHash          string      `json:"tx_hash,omitempty"`
	OwnerWallet     string      `json:"owner_wallet"`
	Chain           Chain       `json:"chain"`
	Staked          bool        `json:"staked"`
	StakedAt        *time.Time  `json:"staked_at,omitempty"`
	Status          Status      `json:"status"`
	Source          ItemSource  `json:"source"`
	ModifiedAt      time.Time   `json:"modified_at"`
}

// ClaimKind distinguishes real mints from bookkeeping entries
type ClaimKind string

const (
	ClaimKindMint        ClaimKind = "mint"
	ClaimKindBookkeeping ClaimKind = "bookkeeping"
)

// ClaimRecord is the durable proof that an offchain item was minted for a wallet
type ClaimRecord struct {
	ID              string    `json:"id"`
	Wallet          string    `json:"wallet"`
	ItemID          string    `json:"item_id"`
	Chain           Chain     `json:"chain"`
	ContractAddress string    `json:"contract_address"`
	TokenID         string    `json:"token_id"`
	TxHash          string    `json:"tx_hash"`
	Kind            ClaimKind `json:"kind"`
	ClaimedAt       time.Time `json:"claimed_at"`
}

// ClaimStatus describes whether an item can be claimed by a wallet
type ClaimStatus struct {
	IsClaimed    bool       `json:"is_claimed"`
	CanClaim     bool       `json:"can_claim"`
	IsClaiming   bool       `json:"is_claiming"`
	ClaimedChain Chain      `json:"claimed_chain,omitempty"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`
	TxHash       string     `json:"tx_hash,omitempty"`
}

// ClaimResult is the response envelope of a claim
type ClaimResult struct {
	Success     bool         `json:"success"`
	OnchainItem *OnchainItem `json:"onchain_item,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// NFTStatus summarizes both phases of a wallet's items
type NFTStatus struct {
	Offchain      []OffchainItem `json:"offchain"`
	Onchain       []OnchainItem  `json:"onchain"`
	TotalOffchain int            `json:"total_offchain"`
	TotalOnchain  int            `json:"total_onchain"`
}

// ContractType identifies the role of a watched contract
type ContractType string

const (
	ContractTypeNFT     ContractType = "nft"
	ContractTypeStaking ContractType = "staking"
)

// Event names handled by the reconciliation monitor
const (
	EventTransfer = "Transfer"
	EventStaked   = "Staked"
	EventUnstaked = "Unstaked"
)

// ChainEvent is a decoded contract log
type ChainEvent struct {
	Chain           Chain                  `json:"chain"`
	ContractType    ContractType           `json:"contract_type"`
	ContractAddress string                 `json:"contract_address"`
	EventName       string                 `json:"event_name"`
	TxHash          string                 `json:"tx_hash"`
	BlockNumber     uint64                 `json:"block_number"`
	LogIndex        uint                   `json:"log_index"`
	Timestamp       time.Time              `json:"timestamp"`
	Args            map[string]interface{} `json:"args"`
}

// NormalizeAddress lowercases a hex address
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// ValidateWallet checks the wallet is a hex EVM address and returns it normalized
func ValidateWallet(wallet string) (string, error) {
	if !common.IsHexAddress(wallet) {
		return "", fmt.Errorf("%w: %q", ErrInvalidWallet, wallet)
	}
	return NormalizeAddress(wallet), nil
}
