package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/metrics"
)

const (
	DefaultProbeTimeout = 2 * time.Second
	DefaultCacheTTL     = 5 * time.Minute
	DefaultCacheSize    = 10000
	DefaultWorkers      = 16
)

// Config holds configuration for the gateway resolver
type Config struct {
	// Gateways are IPFS gateway base URLs in priority order. The first one
	// is used as the fallback when no gateway answers.
	Gateways []string
	// ArweaveGateway serves ar:// references
	ArweaveGateway string
	ProbeTimeout   time.Duration
	CacheTTL       time.Duration
	CacheSize      int
	// Workers bounds concurrent resolutions in ResolveMany
	Workers int
}

// CacheEntry is a resolved gateway URL for a content hash
type CacheEntry struct {
	URL        string
	ResolvedAt time.Time
	// Reliability ranks the answering gateway: 1 for the first configured
	// gateway, decreasing with its position
	Reliability float64
}

// Resolver maps content hashes to a reachable gateway URL
//
//go:generate mockgen -source=resolver.go -destination=../mocks/gateway_resolver.go -package=mocks -mock_names=Resolver=MockGatewayResolver
type Resolver interface {
	// Resolve returns a gateway URL for hash. It never fails: when no
	// gateway answers the first gateway's URL is returned uncached.
	Resolve(ctx context.Context, hash string) string
	// ResolveMany resolves each distinct hash concurrently
	ResolveMany(ctx context.Context, hashes []string) map[string]string
	// ResolveURI rewrites ipfs://, ar:// and gateway /ipfs/ URLs to a
	// reachable URL. Other URIs are returned unchanged.
	ResolveURI(ctx context.Context, uri string) string
	// Invalidate drops the cached entry of hash
	Invalidate(hash string)
}

type resolver struct {
	httpClient adapter.HTTPClient
	clock      adapter.Clock
	config     Config
	cache      *expirable.LRU[string, CacheEntry]
	pool       pond.ResultPool[string]
}

// NewResolver creates a gateway resolver with its own cache
func NewResolver(httpClient adapter.HTTPClient, clock adapter.Clock, config Config) Resolver {
	if len(config.Gateways) == 0 {
		config.Gateways = []string{domain.DEFAULT_IPFS_GATEWAY}
	}
	gateways := make([]string, len(config.Gateways))
	for i, gw := range config.Gateways {
		gateways[i] = strings.TrimRight(gw, "/")
	}
	config.Gateways = gateways
	if config.ArweaveGateway == "" {
		config.ArweaveGateway = domain.DEFAULT_ARWEAVE_GATEWAY
	}
	config.ArweaveGateway = strings.TrimRight(config.ArweaveGateway, "/")
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = DefaultProbeTimeout
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultCacheSize
	}
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}

	return &resolver{
		httpClient: httpClient,
		clock:      clock,
		config:     config,
		cache:      expirable.NewLRU[string, CacheEntry](config.CacheSize, nil, config.CacheTTL),
		pool:       pond.NewResultPool[string](config.Workers),
	}
}

func (r *resolver) Resolve(ctx context.Context, hash string) string {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return r.fallbackURL(hash)
	}

	if entry, ok := r.cache.Get(hash); ok && r.clock.Since(entry.ResolvedAt) < r.config.CacheTTL {
		metrics.RecordGatewayResolution("cache")
		return entry.URL
	}

	for i, gw := range r.config.Gateways {
		if ctx.Err() != nil {
			break
		}

		url := fmt.Sprintf("%s/ipfs/%s", gw, hash)
		ok := r.probe(ctx, url)
		metrics.RecordGatewayProbe(gw, ok)
		if !ok {
			continue
		}

		r.cache.Add(hash, CacheEntry{
			URL:         url,
			ResolvedAt:  r.clock.Now(),
			Reliability: 1 - float64(i)/float64(len(r.config.Gateways)),
		})
		metrics.RecordGatewayResolution("probe")
		return url
	}

	logger.WarnCtx(ctx, "No gateway answered, using fallback", zap.String("hash", hash))
	metrics.RecordGatewayResolution("fallback")
	return r.fallbackURL(hash)
}

func (r *resolver) ResolveMany(ctx context.Context, hashes []string) map[string]string {
	tasks := make(map[string]pond.Result[string], len(hashes))
	for _, h := range hashes {
		if _, seen := tasks[h]; seen {
			continue
		}
		hash := h
		tasks[hash] = r.pool.Submit(func() string {
			return r.Resolve(ctx, hash)
		})
	}

	resolved := make(map[string]string, len(tasks))
	for hash, task := range tasks {
		url, err := task.Wait()
		if err != nil {
			logger.WarnCtx(ctx, "Gateway resolution task failed", zap.String("hash", hash), zap.Error(err))
			url = r.fallbackURL(hash)
		}
		resolved[hash] = url
	}
	return resolved
}

func (r *resolver) ResolveURI(ctx context.Context, uri string) string {
	uri = strings.TrimSpace(uri)

	if txID, ok := strings.CutPrefix(uri, "ar://"); ok {
		return fmt.Sprintf("%s/%s", r.config.ArweaveGateway, txID)
	}

	if hash, path, ok := SplitIPFS(uri); ok {
		return joinPath(r.Resolve(ctx, hash), path)
	}

	return uri
}

// SplitIPFS extracts the content hash and the path below it from
// ipfs://<hash>, ipfs://ipfs/<hash> and http(s)://<host>/ipfs/<hash> URIs
func SplitIPFS(uri string) (hash, path string, ok bool) {
	uri = strings.TrimSpace(uri)

	var rest string
	if after, found := strings.CutPrefix(uri, "ipfs://"); found {
		rest = strings.TrimPrefix(after, "ipfs/")
	} else if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		_, after, found := strings.Cut(uri, "/ipfs/")
		if !found {
			return "", "", false
		}
		rest = after
	} else {
		return "", "", false
	}

	hash, path, _ = strings.Cut(rest, "/")
	if hash == "" {
		return "", "", false
	}
	return hash, path, true
}

func (r *resolver) Invalidate(hash string) {
	r.cache.Remove(hash)
}

// probe checks url with a HEAD request, falling back to a one byte ranged
// GET for gateways that reject HEAD
func (r *resolver) probe(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, r.config.ProbeTimeout)
	defer cancel()

	resp, err := r.httpClient.Head(probeCtx, url)
	if err != nil {
		logger.DebugCtx(ctx, "Gateway HEAD failed", zap.String("url", url), zap.Error(err))
		return false
	}
	status := resp.StatusCode
	r.closeBody(ctx, resp, url)
	if isSuccess(status) {
		return true
	}

	resp, err = r.httpClient.GetRange(probeCtx, url, 0, 0)
	if err != nil {
		logger.DebugCtx(ctx, "Gateway ranged GET failed", zap.String("url", url), zap.Error(err))
		return false
	}
	status = resp.StatusCode
	r.closeBody(ctx, resp, url)
	return isSuccess(status)
}

func (r *resolver) closeBody(ctx context.Context, resp *http.Response, url string) {
	if resp.Body == nil {
		return
	}
	if err := resp.Body.Close(); err != nil {
		logger.WarnCtx(ctx, "failed to close response body", zap.Error(err), zap.String("url", url))
	}
}

func (r *resolver) fallbackURL(hash string) string {
	return fmt.Sprintf("%s/ipfs/%s", r.config.Gateways[0], hash)
}

func isSuccess(status int) bool {
	return status == http.StatusOK || status == http.StatusPartialContent
}

func joinPath(base, path string) string {
	if path == "" {
		return base
	}
	return base + "/" + path
}
