package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/feral-file/ff-nft-lifecycle/internal/chain"
	"github.com/feral-file/ff-nft-lifecycle/internal/contracts"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/gateway"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/metadata"
	"github.com/feral-file/ff-nft-lifecycle/internal/rpc"
)

const (
	// DefaultTokenWorkers bounds concurrent metadata loads across all chains
	DefaultTokenWorkers = 8
	// maxEnumeratedTokens guards against absurd balances from broken contracts
	maxEnumeratedTokens = 5000
)

// Config holds configuration for the Reader
type Config struct {
	TokenWorkers int
}

// Reader reads the tokens a wallet holds across every configured network
//
//go:generate mockgen -source=reader.go -destination=../mocks/ledger_reader.go -package=mocks -mock_names=Reader=MockLedgerReader
type Reader interface {
	// LoadAllChainNFTs queries every network concurrently and merges the
	// results in arrival order. A failing network contributes nothing.
	LoadAllChainNFTs(ctx context.Context, wallet string) []domain.OnchainItem

	// LoadChainNFTs loads the tokens of wallet on a single network
	LoadChainNFTs(ctx context.Context, network chain.Network, wallet string) ([]domain.OnchainItem, error)

	// Close stops the token worker pool
	Close()
}

type reader struct {
	registry chain.Registry
	caller   rpc.Caller
	resolver gateway.Resolver
	fetcher  metadata.Fetcher
	pool     pond.ResultPool[domain.OnchainItem]
}

// NewReader creates a Reader
func NewReader(registry chain.Registry, caller rpc.Caller, resolver gateway.Resolver, fetcher metadata.Fetcher, cfg Config) Reader {
	if cfg.TokenWorkers <= 0 {
		cfg.TokenWorkers = DefaultTokenWorkers
	}
	return &reader{
		registry: registry,
		caller:   caller,
		resolver: resolver,
		fetcher:  fetcher,
		pool:     pond.NewResultPool[domain.OnchainItem](cfg.TokenWorkers),
	}
}

// stakeInfo is the staking state of a single token
type stakeInfo struct {
	stakedAt *time.Time
}

func (r *reader) LoadAllChainNFTs(ctx context.Context, wallet string) []domain.OnchainItem {
	networks := r.registry.Networks()
	results := make(chan []domain.OnchainItem, len(networks))

	var g errgroup.Group
	for _, network := range networks {
		g.Go(func() error {
			items, err := r.LoadChainNFTs(ctx, network, wallet)
			if err != nil {
				logger.WarnCtx(ctx, "Failed to load chain NFTs, skipping chain",
					zap.String("chain", string(network.Chain)),
					zap.String("wallet", wallet),
					zap.Error(err))
				return nil
			}
			results <- items
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	var all []domain.OnchainItem
	for items := range results {
		all = append(all, items...)
	}
	return all
}

func (r *reader) LoadChainNFTs(ctx context.Context, network chain.Network, wallet string) ([]domain.OnchainItem, error) {
	if network.NFTContract == "" {
		return nil, nil
	}
	owner := common.HexToAddress(wallet)

	owned, err := r.enumerateOwned(ctx, network, owner)
	if err != nil {
		return nil, err
	}
	staked := r.stakedTokens(ctx, network, owner)

	// staked tokens are held by the staking contract but still belong to the wallet
	tokenIDs := make([]string, 0, len(owned)+len(staked))
	seen := make(map[string]bool, len(owned)+len(staked))
	for _, id := range owned {
		if !seen[id] {
			seen[id] = true
			tokenIDs = append(tokenIDs, id)
		}
	}
	for id := range staked {
		if !seen[id] {
			seen[id] = true
			tokenIDs = append(tokenIDs, id)
		}
	}
	if len(tokenIDs) == 0 {
		return []domain.OnchainItem{}, nil
	}

	tasks := make([]pond.Result[domain.OnchainItem], len(tokenIDs))
	for i, tokenID := range tokenIDs {
		stake, isStaked := staked[tokenID]
		tasks[i] = r.pool.Submit(func() domain.OnchainItem {
			return r.loadToken(ctx, network, domain.NormalizeAddress(wallet), tokenID, isStaked, stake)
		})
	}

	items := make([]domain.OnchainItem, 0, len(tasks))
	for _, task := range tasks {
		item, err := task.Wait()
		if err != nil {
			return nil, fmt.Errorf("failed to load token metadata: %w", err)
		}
		items = append(items, item)
	}

	logger.DebugCtx(ctx, "Loaded chain NFTs",
		zap.String("chain", string(network.Chain)),
		zap.Int("owned", len(owned)),
		zap.Int("staked", len(staked)))
	return items, nil
}

// enumerateOwned lists the token ids held by owner, preferring ERC-721
// enumeration and falling back to tokensOfOwner
func (r *reader) enumerateOwned(ctx context.Context, network chain.Network, owner common.Address) ([]string, error) {
	out, err := r.caller.Call(ctx, network.RPCEndpoints, contracts.ERC721, network.NFTContract, "balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	balance, err := bigOutput(out, 0)
	if err != nil {
		return nil, err
	}
	if balance.Sign() == 0 {
		return nil, nil
	}

	count := balance.Int64()
	if !balance.IsInt64() || count > maxEnumeratedTokens {
		logger.WarnCtx(ctx, "Balance exceeds enumeration limit, truncating",
			zap.String("chain", string(network.Chain)),
			zap.String("balance", balance.String()))
		count = maxEnumeratedTokens
	}

	ids := make([]string, 0, count)
	for i := int64(0); i < count; i++ {
		out, err := r.caller.Call(ctx, network.RPCEndpoints, contracts.ERC721, network.NFTContract, "tokenOfOwnerByIndex", owner, big.NewInt(i))
		if err != nil {
			if i == 0 && rpc.IsNotSupported(err) {
				return r.tokensOfOwner(ctx, network, owner)
			}
			return nil, fmt.Errorf("failed to get token at index %d: %w", i, err)
		}
		id, err := bigOutput(out, 0)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}
	return ids, nil
}

func (r *reader) tokensOfOwner(ctx context.Context, network chain.Network, owner common.Address) ([]string, error) {
	out, err := r.caller.Call(ctx, network.RPCEndpoints, contracts.ERC721, network.NFTContract, "tokensOfOwner", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens of owner: %w", err)
	}
	tokens, err := bigSliceOutput(out, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tokens))
	for i, t := range tokens {
		ids[i] = t.String()
	}
	return ids, nil
}

// stakedTokens returns the staked token ids of owner. Any failure yields
// no staked tokens; the owned set is still served.
func (r *reader) stakedTokens(ctx context.Context, network chain.Network, owner common.Address) map[string]stakeInfo {
	staked := make(map[string]stakeInfo)
	if !network.HasStaking() {
		return staked
	}

	out, err := r.caller.Call(ctx, network.RPCEndpoints, contracts.Staking, network.StakingContract, "getStakedTokens", owner)
	if err != nil {
		if rpc.IsNotSupported(err) {
			logger.DebugCtx(ctx, "Staking contract does not expose getStakedTokens",
				zap.String("chain", string(network.Chain)))
		} else {
			logger.WarnCtx(ctx, "Failed to get staked tokens",
				zap.String("chain", string(network.Chain)),
				zap.Error(err))
		}
		return staked
	}

	ids, err := bigSliceOutput(out, 0)
	if err != nil {
		logger.WarnCtx(ctx, "Unexpected getStakedTokens output", zap.Error(err))
		return staked
	}
	times, _ := bigSliceOutput(out, 1)

	for i, id := range ids {
		info := stakeInfo{}
		if i < len(times) && times[i].Sign() > 0 {
			t := time.Unix(times[i].Int64(), 0).UTC()
			info.stakedAt = &t
		}
		staked[id.String()] = info
	}
	return staked
}

// loadToken resolves metadata for a single token. Failures produce a
// placeholder so one bad token never hides the others.
func (r *reader) loadToken(ctx context.Context, network chain.Network, wallet, tokenID string, isStaked bool, stake stakeInfo) domain.OnchainItem {
	item := domain.OnchainItem{
		ID:              ItemID(network.Chain, network.NFTContract, tokenID),
		TokenID:         tokenID,
		ContractAddress: network.NFTContract,
		OwnerWallet:     wallet,
		Chain:           network.Chain,
		Staked:          isStaked,
		StakedAt:        stake.stakedAt,
		Status:          domain.StatusOnchain,
		Source:          domain.SourceBlockchain,
	}
	if stake.stakedAt != nil {
		item.ModifiedAt = *stake.stakedAt
	}

	meta, err := r.fetchMetadata(ctx, network, tokenID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to load token metadata, using placeholder",
			zap.String("chain", string(network.Chain)),
			zap.String("tokenID", tokenID),
			zap.Error(err))
		item.Metadata = domain.PlaceholderMetadata(tokenID)
		return item
	}
	item.Metadata = *meta
	return item
}

func (r *reader) fetchMetadata(ctx context.Context, network chain.Network, tokenID string) (*domain.NFTMetadata, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return nil, fmt.Errorf("invalid token id %q", tokenID)
	}

	out, err := r.caller.Call(ctx, network.RPCEndpoints, contracts.ERC721, network.NFTContract, "tokenURI", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get token uri: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty tokenURI output")
	}
	uri, ok := out[0].(string)
	if !ok || uri == "" {
		return nil, fmt.Errorf("token uri is empty")
	}

	resolved := r.resolver.ResolveURI(ctx, metadata.ExpandTokenURI(uri, tokenID))
	return r.fetcher.Fetch(ctx, resolved)
}

func (r *reader) Close() {
	r.pool.StopAndWait()
}

// ItemID is the identifier of an onchain item read from a network
func ItemID(c domain.Chain, contract, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", c, domain.NormalizeAddress(contract), tokenID)
}

func bigOutput(out []interface{}, idx int) (*big.Int, error) {
	if len(out) <= idx {
		return nil, fmt.Errorf("missing output %d", idx)
	}
	v, ok := out[idx].(*big.Int)
	if !ok || v == nil {
		return nil, fmt.Errorf("output %d is %T, expected *big.Int", idx, out[idx])
	}
	return v, nil
}

func bigSliceOutput(out []interface{}, idx int) ([]*big.Int, error) {
	if len(out) <= idx {
		return nil, fmt.Errorf("missing output %d", idx)
	}
	v, ok := out[idx].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("output %d is %T, expected []*big.Int", idx, out[idx])
	}
	return v, nil
}
