package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/chain"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/ledger"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/metrics"
	"github.com/feral-file/ff-nft-lifecycle/internal/minter"
	"github.com/feral-file/ff-nft-lifecycle/internal/staking"
	"github.com/feral-file/ff-nft-lifecycle/internal/store"
	"github.com/feral-file/ff-nft-lifecycle/internal/store/schema"
)

const (
	defaultRecordRetryDuration = 30 * time.Second
	defaultRecordRetryInterval = 200 * time.Millisecond
)

// Config holds configuration for the Coordinator
type Config struct {
	// ClaimChain is the network claims are minted on
	ClaimChain domain.Chain
	// RecordRetryDuration bounds how long a claim record write is retried after a successful mint
	RecordRetryDuration time.Duration
	// RecordRetryInterval is the first delay between claim record write attempts
	RecordRetryInterval time.Duration
}

// Coordinator drives items through offchain, claiming and onchain
//
//go:generate mockgen -source=coordinator.go -destination=../mocks/lifecycle_coordinator.go -package=mocks -mock_names=Coordinator=MockCoordinator
type Coordinator interface {
	// LoadOffchainNFTs returns the wallet's unclaimed items annotated with their staking state
	LoadOffchainNFTs(ctx context.Context, wallet string) []domain.OffchainItem

	// LoadOnchainNFTs returns the wallet's tokens across all networks. Claim
	// records are used only when the networks report nothing.
	LoadOnchainNFTs(ctx context.Context, wallet string) []domain.OnchainItem

	// ClaimNFTToBlockchain mints an offchain item to wallet and records the claim
	ClaimNFTToBlockchain(ctx context.Context, itemID, wallet string) (*domain.OnchainItem, error)

	// ClaimNFT is ClaimNFTToBlockchain wrapped in a result envelope
	ClaimNFT(ctx context.Context, itemID, wallet string) domain.ClaimResult

	// CheckClaimStatus reports whether wallet can claim the item
	CheckClaimStatus(ctx context.Context, itemID, wallet string) domain.ClaimStatus

	// GetNFTStatus loads both phases concurrently
	GetNFTStatus(ctx context.Context, wallet string) domain.NFTStatus
}

type coordinator struct {
	store    store.Store
	reader   ledger.Reader
	registry chain.Registry
	minter   minter.Minter
	staking  staking.OffchainProvider
	clock    adapter.Clock
	config   Config

	claims   singleflight.Group
	inflight sync.Map
}

// NewCoordinator creates a Coordinator. stakingProvider may be nil.
func NewCoordinator(
	st store.Store,
	reader ledger.Reader,
	registry chain.Registry,
	mt minter.Minter,
	stakingProvider staking.OffchainProvider,
	clock adapter.Clock,
	config Config,
) Coordinator {
	if config.RecordRetryDuration <= 0 {
		config.RecordRetryDuration = defaultRecordRetryDuration
	}
	if config.RecordRetryInterval <= 0 {
		config.RecordRetryInterval = defaultRecordRetryInterval
	}
	return &coordinator{
		store:    st,
		reader:   reader,
		registry: registry,
		minter:   mt,
		staking:  stakingProvider,
		clock:    clock,
		config:   config,
	}
}

func (c *coordinator) LoadOffchainNFTs(ctx context.Context, wallet string) []domain.OffchainItem {
	wallet = domain.NormalizeAddress(wallet)

	rows, err := c.store.GetOffchainItemsByOwner(ctx, wallet)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to load offchain items", zap.String("wallet", wallet), zap.Error(err))
		return []domain.OffchainItem{}
	}
	claims, err := c.store.GetClaimRecordsByWallet(ctx, wallet)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to load claim records", zap.String("wallet", wallet), zap.Error(err))
		return []domain.OffchainItem{}
	}

	claimed := make(map[string]bool, len(claims))
	for _, rec := range claims {
		claimed[rec.ItemID] = true
	}

	staked := c.stakedItems(ctx, wallet)

	items := make([]domain.OffchainItem, 0, len(rows))
	for _, row := range rows {
		if claimed[row.ID] {
			continue
		}
		item := offchainFromSchema(row)
		item.Staked = staked[row.ID]
		if c.isClaiming(wallet, row.ID) {
			item.Status = domain.StatusClaiming
		}
		items = append(items, item)
	}
	return items
}

// stakedItems asks the staking collaborator; failures mean nothing is staked
func (c *coordinator) stakedItems(ctx context.Context, wallet string) map[string]bool {
	if c.staking == nil {
		return nil
	}
	staked, err := c.staking.StakedItemIDs(ctx, wallet)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to load staked items, treating all as unstaked",
			zap.String("wallet", wallet),
			zap.Error(err))
		return nil
	}
	return staked
}

func (c *coordinator) LoadOnchainNFTs(ctx context.Context, wallet string) []domain.OnchainItem {
	wallet = domain.NormalizeAddress(wallet)

	items := c.reader.LoadAllChainNFTs(ctx, wallet)

	claims, err := c.store.GetClaimRecordsByWallet(ctx, wallet)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to load claim records", zap.String("wallet", wallet), zap.Error(err))
		claims = nil
	}

	if len(items) > 0 {
		annotateWithClaims(items, claims)
		return items
	}
	return c.fromClaimRecords(ctx, claims)
}

// annotateWithClaims links chain items back to the offchain item they were claimed from
func annotateWithClaims(items []domain.OnchainItem, claims []schema.ClaimRecord) {
	if len(claims) == 0 {
		return
	}
	byToken := make(map[string]schema.ClaimRecord, len(claims))
	for _, rec := range claims {
		byToken[claimKey(domain.Chain(rec.Chain), rec.ContractAddress, rec.TokenID)] = rec
	}
	for i := range items {
		rec, ok := byToken[claimKey(items[i].Chain, items[i].ContractAddress, items[i].TokenID)]
		if !ok {
			continue
		}
		items[i].ID = rec.ItemID
		items[i].TxHash = rec.TxHash
		if items[i].ModifiedAt.IsZero() {
			items[i].ModifiedAt = rec.ClaimedAt
		}
	}
}

// fromClaimRecords rebuilds the onchain view from minted claims joined with their offchain metadata
func (c *coordinator) fromClaimRecords(ctx context.Context, claims []schema.ClaimRecord) []domain.OnchainItem {
	var minted []schema.ClaimRecord
	ids := make([]string, 0, len(claims))
	for _, rec := range claims {
		if rec.Kind != schema.ClaimKindMint {
			continue
		}
		minted = append(minted, rec)
		ids = append(ids, rec.ItemID)
	}
	if len(minted) == 0 {
		return []domain.OnchainItem{}
	}

	metaByID := make(map[string]domain.NFTMetadata, len(ids))
	rows, err := c.store.GetOffchainItemsByIDs(ctx, ids)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to load claimed item metadata", zap.Error(err))
	}
	for _, row := range rows {
		metaByID[row.ID] = metadataFromSchema(row)
	}

	items := make([]domain.OnchainItem, 0, len(minted))
	for _, rec := range minted {
		meta, ok := metaByID[rec.ItemID]
		if !ok {
			meta = domain.PlaceholderMetadata(rec.TokenID)
		}
		items = append(items, onchainFromClaim(rec, meta))
	}
	return items
}

func (c *coordinator) ClaimNFTToBlockchain(ctx context.Context, itemID, wallet string) (*domain.OnchainItem, error) {
	wallet = domain.NormalizeAddress(wallet)
	key := inflightKey(wallet, itemID)

	// the claim outlives the request that started it
	claimCtx := context.WithoutCancel(ctx)
	ch := c.claims.DoChan(key, func() (interface{}, error) {
		c.inflight.Store(key, struct{}{})
		defer c.inflight.Delete(key)
		return c.claim(claimCtx, itemID, wallet)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		item := *res.Val.(*domain.OnchainItem)
		return &item, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrClaimInProgress, ctx.Err())
	}
}

func (c *coordinator) claim(ctx context.Context, itemID, wallet string) (*domain.OnchainItem, error) {
	existing, err := c.store.GetClaimRecord(ctx, wallet, itemID)
	if err != nil {
		metrics.RecordClaim("error")
		return nil, fmt.Errorf("failed to check claim record: %w", err)
	}
	if existing != nil {
		metrics.RecordClaim("already_claimed")
		return nil, domain.ErrAlreadyClaimed
	}

	row, err := c.store.GetOffchainItem(ctx, itemID)
	if err != nil {
		metrics.RecordClaim("error")
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	if domain.NormalizeAddress(row.OwnerWallet) != wallet {
		return nil, domain.ErrNotOwner
	}
	if row.ContentHash == "" {
		return nil, fmt.Errorf("item %s has no content hash", itemID)
	}

	network, err := c.registry.Network(c.config.ClaimChain)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Claiming item",
		zap.String("itemID", itemID),
		zap.String("wallet", wallet),
		zap.String("chain", string(network.Chain)))

	result, err := c.minter.Mint(ctx, wallet, network, "ipfs://"+row.ContentHash)
	if err != nil {
		metrics.RecordClaim("mint_failed")
		return nil, fmt.Errorf("failed to mint item %s: %w", itemID, err)
	}

	claimedAt := c.clock.Now().UTC()
	c.recordClaim(ctx, store.CreateClaimRecordInput{
		Wallet:          wallet,
		ItemID:          itemID,
		Chain:           string(result.Chain),
		ContractAddress: result.ContractAddress,
		TokenID:         result.TokenID,
		TxHash:          result.TxHash,
		Kind:            schema.ClaimKindMint,
		ClaimedAt:       claimedAt,
	})

	metrics.RecordClaim("success")
	return &domain.OnchainItem{
		ID:              itemID,
		Metadata:        metadataFromSchema(*row),
		TokenID:         result.TokenID,
		ContractAddress: result.ContractAddress,
		TxHash:          result.TxHash,
		OwnerWallet:     wallet,
		Chain:           result.Chain,
		Status:          domain.StatusOnchain,
		Source:          domain.SourceBlockchain,
		ModifiedAt:      claimedAt,
	}, nil
}

// recordClaim persists the claim after a mint. The mint cannot be undone, so
// an exhausted retry is reported loudly but does not fail the claim.
func (c *coordinator) recordClaim(ctx context.Context, input store.CreateClaimRecordInput) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RecordRetryInterval
	b.MaxElapsedTime = c.config.RecordRetryDuration

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		_, created, err := c.store.CreateClaimRecord(ctx, input)
		if err != nil {
			return err
		}
		if !created {
			logger.WarnCtx(ctx, "Claim record already existed after mint",
				zap.String("itemID", input.ItemID),
				zap.String("txHash", input.TxHash))
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		metrics.RecordClaim("record_failed")
		logger.ErrorCtx(ctx, fmt.Errorf("CRITICAL: minted item has no claim record: %w", err),
			zap.String("wallet", input.Wallet),
			zap.String("itemID", input.ItemID),
			zap.String("chain", input.Chain),
			zap.String("tokenID", input.TokenID),
			zap.String("txHash", input.TxHash),
			zap.Int("attempts", attempts))
	}
}

func (c *coordinator) ClaimNFT(ctx context.Context, itemID, wallet string) domain.ClaimResult {
	item, err := c.ClaimNFTToBlockchain(ctx, itemID, wallet)
	if err != nil {
		return domain.ClaimResult{Success: false, Error: err.Error()}
	}
	return domain.ClaimResult{Success: true, OnchainItem: item}
}

func (c *coordinator) CheckClaimStatus(ctx context.Context, itemID, wallet string) domain.ClaimStatus {
	wallet = domain.NormalizeAddress(wallet)

	if c.isClaiming(wallet, itemID) {
		return domain.ClaimStatus{IsClaiming: true, CanClaim: false}
	}

	rec, err := c.store.GetClaimRecord(ctx, wallet, itemID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to check claim record, assuming claimable",
			zap.String("itemID", itemID),
			zap.Error(err))
		return domain.ClaimStatus{CanClaim: true}
	}
	if rec == nil {
		return domain.ClaimStatus{CanClaim: true}
	}

	claimedAt := rec.ClaimedAt
	return domain.ClaimStatus{
		IsClaimed:    true,
		CanClaim:     false,
		ClaimedChain: domain.Chain(rec.Chain),
		ClaimedAt:    &claimedAt,
		TxHash:       rec.TxHash,
	}
}

func (c *coordinator) GetNFTStatus(ctx context.Context, wallet string) domain.NFTStatus {
	var status domain.NFTStatus

	var g errgroup.Group
	g.Go(func() error {
		status.Offchain = c.LoadOffchainNFTs(ctx, wallet)
		return nil
	})
	g.Go(func() error {
		status.Onchain = c.LoadOnchainNFTs(ctx, wallet)
		return nil
	})
	_ = g.Wait()

	status.TotalOffchain = len(status.Offchain)
	status.TotalOnchain = len(status.Onchain)
	return status
}

func (c *coordinator) isClaiming(wallet, itemID string) bool {
	_, ok := c.inflight.Load(inflightKey(wallet, itemID))
	return ok
}

func inflightKey(wallet, itemID string) string {
	return wallet + ":" + itemID
}
