package pagecache

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/gateway"
	"github.com/feral-file/ff-nft-lifecycle/internal/lifecycle"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
)

const (
	DefaultTTL     = 2 * time.Minute
	DefaultSize    = 1000
	preloadTimeout = 30 * time.Second
	preloadWorkers = 4
)

// Config holds configuration for the page cache
type Config struct {
	TTL  time.Duration
	Size int
}

// Options select the list variant and bypass the cache
type Options struct {
	IncludeStaked bool
	ForceRefresh  bool
}

// Page is one slice of a wallet's combined list
type Page struct {
	Items       []Item `json:"items"`
	HasMore     bool   `json:"has_more"`
	TotalCount  int    `json:"total_count"`
	CurrentPage int    `json:"current_page"`
}

// Cache serves a wallet's combined item list page by page. The list is
// sorted once per fill, so pages of one fill never overlap or skip.
//
//go:generate mockgen -source=cache.go -destination=../mocks/pagecache.go -package=mocks -mock_names=Cache=MockPageCache
type Cache interface {
	// LoadPage returns a 1-based page of the wallet's list
	LoadPage(ctx context.Context, wallet string, page, pageSize int, opts Options) (*Page, error)
	// Refresh drops the cached list and loads it again
	Refresh(ctx context.Context, wallet string, opts Options) error
	// PreloadNextBatch fills the cache and warms gateway resolution for
	// the page after page in the background
	PreloadNextBatch(wallet string, page, pageSize int, opts Options)
	// Invalidate drops every cached list of the wallet
	Invalidate(wallet string)
	// Close waits for background preloads
	Close()
}

type cacheKey struct {
	wallet        string
	includeStaked bool
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s:%t", k.wallet, k.includeStaked)
}

type cache struct {
	coordinator lifecycle.Coordinator
	resolver    gateway.Resolver
	lists       *expirable.LRU[cacheKey, []Item]
	fills       singleflight.Group
	pool        pond.Pool
}

// NewCache creates a page cache over the coordinator. resolver may be nil,
// in which case preloading only fills the list.
func NewCache(coordinator lifecycle.Coordinator, resolver gateway.Resolver, config Config) Cache {
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	if config.Size <= 0 {
		config.Size = DefaultSize
	}
	return &cache{
		coordinator: coordinator,
		resolver:    resolver,
		lists:       expirable.NewLRU[cacheKey, []Item](config.Size, nil, config.TTL),
		pool:        pond.NewPool(preloadWorkers),
	}
}

func (c *cache) LoadPage(ctx context.Context, wallet string, page, pageSize int, opts Options) (*Page, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("%w: page %d size %d", domain.ErrInvalidPage, page, pageSize)
	}

	key := cacheKey{wallet: domain.NormalizeAddress(wallet), includeStaked: opts.IncludeStaked}
	if opts.ForceRefresh {
		c.invalidate(key)
	}

	items, err := c.list(ctx, key)
	if err != nil {
		return nil, err
	}
	return slicePage(items, page, pageSize), nil
}

func (c *cache) Refresh(ctx context.Context, wallet string, opts Options) error {
	key := cacheKey{wallet: domain.NormalizeAddress(wallet), includeStaked: opts.IncludeStaked}
	c.invalidate(key)
	_, err := c.list(ctx, key)
	return err
}

func (c *cache) PreloadNextBatch(wallet string, page, pageSize int, opts Options) {
	if page < 0 || pageSize < 1 {
		return
	}
	key := cacheKey{wallet: domain.NormalizeAddress(wallet), includeStaked: opts.IncludeStaked}

	c.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
		defer cancel()

		items, err := c.list(ctx, key)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to preload item list", zap.String("wallet", key.wallet), zap.Error(err))
			return
		}

		next := slicePage(items, page+1, pageSize)
		if c.resolver == nil || len(next.Items) == 0 {
			return
		}
		hashes := imageHashes(next.Items)
		if len(hashes) > 0 {
			c.resolver.ResolveMany(ctx, hashes)
		}
		logger.DebugCtx(ctx, "Preloaded next page",
			zap.String("wallet", key.wallet),
			zap.Int("page", page+1),
			zap.Int("hashes", len(hashes)))
	})
}

func (c *cache) Invalidate(wallet string) {
	wallet = domain.NormalizeAddress(wallet)
	for _, includeStaked := range []bool{false, true} {
		c.invalidate(cacheKey{wallet: wallet, includeStaked: includeStaked})
	}
}

func (c *cache) Close() {
	c.pool.StopAndWait()
}

func (c *cache) invalidate(key cacheKey) {
	c.lists.Remove(key)
	c.fills.Forget(key.String())
}

// list returns the cached list of key, filling it once for concurrent callers
func (c *cache) list(ctx context.Context, key cacheKey) ([]Item, error) {
	if items, ok := c.lists.Get(key); ok {
		return items, nil
	}

	// The fill is shared by every collapsed caller, so it must outlive the
	// caller that started it. Each caller still stops waiting on its own ctx.
	fillCtx := context.WithoutCancel(ctx)
	ch := c.fills.DoChan(key.String(), func() (interface{}, error) {
		if items, ok := c.lists.Get(key); ok {
			return items, nil
		}

		var (
			offchain []domain.OffchainItem
			onchain  []domain.OnchainItem
		)
		g, gctx := errgroup.WithContext(fillCtx)
		g.Go(func() error {
			offchain = c.coordinator.LoadOffchainNFTs(gctx, key.wallet)
			return nil
		})
		g.Go(func() error {
			onchain = c.coordinator.LoadOnchainNFTs(gctx, key.wallet)
			return nil
		})
		_ = g.Wait()

		items := combine(offchain, onchain, key.includeStaked)
		c.lists.Add(key, items)
		return items, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Item), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func imageHashes(items []Item) []string {
	var hashes []string
	for _, it := range items {
		if hash, _, ok := gateway.SplitIPFS(it.Metadata.Image); ok {
			hashes = append(hashes, hash)
		}
	}
	return hashes
}
