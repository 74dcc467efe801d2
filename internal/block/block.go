package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/chain"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/rpc"
)

const defaultTimestampCacheSize = 10_000

// BlockInfo represents a cached chain head
type BlockInfo struct {
	Number    uint64
	FetchedAt time.Time
}

type timestampKey struct {
	chain domain.Chain
	block uint64
}

// BlockProvider provides cached access to chain heads and block timestamps
// for every configured network. Timestamps of a block never change, so they
// are kept until evicted by size.
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=BlockProvider=MockBlockProvider
type BlockProvider interface {
	// GetLatestBlock returns the head of a network, potentially from cache
	GetLatestBlock(ctx context.Context, network chain.Network) (uint64, error)

	// GetBlockTimestamp returns the timestamp of a block, potentially from cache
	GetBlockTimestamp(ctx context.Context, network chain.Network, blockNumber uint64) (time.Time, error)
}

// Config holds configuration for the BlockProvider
type Config struct {
	// TTL is how long to cache a chain head
	TTL time.Duration

	// StaleWindow is how long a cached head may still be served when fetching fails
	StaleWindow time.Duration

	// TimestampCacheSize bounds the number of cached block timestamps
	TimestampCacheSize int
}

type blockProvider struct {
	caller rpc.Caller
	config Config
	clock  adapter.Clock

	mu         sync.RWMutex
	heads      map[domain.Chain]*BlockInfo
	timestamps *lru.Cache[timestampKey, time.Time]
}

// NewBlockProvider creates a new BlockProvider reading through caller
func NewBlockProvider(caller rpc.Caller, config Config, clock adapter.Clock) (BlockProvider, error) {
	if config.TimestampCacheSize <= 0 {
		config.TimestampCacheSize = defaultTimestampCacheSize
	}
	timestamps, err := lru.New[timestampKey, time.Time](config.TimestampCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create timestamp cache: %w", err)
	}
	return &blockProvider{
		caller:     caller,
		config:     config,
		clock:      clock,
		heads:      make(map[domain.Chain]*BlockInfo),
		timestamps: timestamps,
	}, nil
}

// GetLatestBlock returns the latest block number, using cache if valid
func (p *blockProvider) GetLatestBlock(ctx context.Context, network chain.Network) (uint64, error) {
	p.mu.RLock()
	cached := p.heads[network.Chain]
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.FetchedAt) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached block number",
			zap.String("chain", string(network.Chain)),
			zap.Uint64("block_number", cached.Number))
		return cached.Number, nil
	}

	blockNumber, err := p.caller.BlockNumber(ctx, network.RPCEndpoints)
	if err != nil {
		if cached != nil && now.Sub(cached.FetchedAt) < p.config.StaleWindow {
			logger.WarnCtx(ctx, "Using stale block number",
				zap.String("chain", string(network.Chain)),
				zap.Uint64("block_number", cached.Number),
				zap.Error(err))
			return cached.Number, nil
		}
		return 0, fmt.Errorf("failed to fetch latest block of %s and no valid cache available: %w", network.Chain, err)
	}

	p.mu.Lock()
	p.heads[network.Chain] = &BlockInfo{Number: blockNumber, FetchedAt: now}
	p.mu.Unlock()

	return blockNumber, nil
}

// GetBlockTimestamp returns the timestamp for a given block number, using cache if present
func (p *blockProvider) GetBlockTimestamp(ctx context.Context, network chain.Network, blockNumber uint64) (time.Time, error) {
	key := timestampKey{chain: network.Chain, block: blockNumber}
	if ts, ok := p.timestamps.Get(key); ok {
		return ts, nil
	}

	seconds, err := p.caller.BlockTime(ctx, network.RPCEndpoints, blockNumber)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch timestamp of block %d on %s: %w", blockNumber, network.Chain, err)
	}

	ts := time.Unix(int64(seconds), 0).UTC()
	p.timestamps.Add(key, ts)
	return ts, nil
}
