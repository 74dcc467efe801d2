package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/api/middleware"
	"github.com/feral-file/ff-nft-lifecycle/internal/api/server"
	"github.com/feral-file/ff-nft-lifecycle/internal/block"
	"github.com/feral-file/ff-nft-lifecycle/internal/chain"
	"github.com/feral-file/ff-nft-lifecycle/internal/config"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/gateway"
	"github.com/feral-file/ff-nft-lifecycle/internal/ledger"
	"github.com/feral-file/ff-nft-lifecycle/internal/lifecycle"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/metadata"
	"github.com/feral-file/ff-nft-lifecycle/internal/minter"
	"github.com/feral-file/ff-nft-lifecycle/internal/monitor"
	"github.com/feral-file/ff-nft-lifecycle/internal/pagecache"
	"github.com/feral-file/ff-nft-lifecycle/internal/rpc"
	"github.com/feral-file/ff-nft-lifecycle/internal/staking"
	"github.com/feral-file/ff-nft-lifecycle/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "nft-lifecycle-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting NFT Lifecycle API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(cfg.Metadata.HTTPTimeout)

	registry, err := chain.NewRegistry(cfg.Chains)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to build chain registry", zap.Error(err))
	}

	caller := rpc.NewCaller(adapter.NewEthClientDialer())
	defer caller.Close()

	resolver := gateway.NewResolver(httpClient, clockAdapter, gateway.Config{
		Gateways:       cfg.Gateway.IPFSGateways,
		ArweaveGateway: cfg.Gateway.ArweaveGateway,
		ProbeTimeout:   cfg.Gateway.ProbeTimeout,
		CacheTTL:       cfg.Gateway.CacheTTL,
		CacheSize:      cfg.Gateway.CacheSize,
		Workers:        cfg.Worker.PoolSize,
	})

	reader := ledger.NewReader(registry, caller, resolver, metadata.NewFetcher(httpClient), ledger.Config{
		TokenWorkers: cfg.Worker.PoolSize,
	})
	defer reader.Close()

	signer, err := minter.NewExternalSigner(cfg.Claim.SignerEndpoint, cfg.Claim.MinterAddress)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create minter signer", zap.Error(err))
	}
	nftMinter := minter.NewMinter(caller, signer, minter.Config{
		GasLimit:       cfg.Claim.GasLimit,
		ReceiptTimeout: cfg.Claim.ReceiptTimeout,
	})

	// Staking is optional; without it every item is reported unstaked
	var stakingProvider staking.OffchainProvider
	if cfg.Staking.BaseURL != "" {
		stakingProvider = staking.NewClient(adapter.NewHTTPClient(cfg.Staking.Timeout), cfg.Staking.BaseURL, cfg.Staking.APIKey)
	} else {
		logger.WarnCtx(ctx, "Staking service not configured, items will be reported unstaked")
	}

	claimChainID := cfg.Claim.ChainID
	if claimChainID == 0 && len(cfg.Chains) > 0 {
		claimChainID = cfg.Chains[0].ChainID
	}
	coordinator := lifecycle.NewCoordinator(dataStore, reader, registry, nftMinter, stakingProvider, clockAdapter, lifecycle.Config{
		ClaimChain:          domain.ChainFromID(claimChainID),
		RecordRetryDuration: cfg.Claim.RecordRetryDuration,
	})

	pages := pagecache.NewCache(coordinator, resolver, pagecache.Config{
		TTL:  cfg.PageCache.TTL,
		Size: cfg.PageCache.Size,
	})
	defer pages.Close()

	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{
		JWTPublicKey: cfg.Auth.JWTPublicKey,
		APIKeys:      cfg.Auth.APIKeys,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to configure authentication", zap.Error(err))
	}

	// The monitor can run in process for single-binary deployments
	var eventMonitor monitor.Monitor
	if cfg.Monitor.Enabled && len(cfg.Monitor.Watches) > 0 {
		blocks, err := block.NewBlockProvider(caller, block.Config{TTL: 5 * time.Second, StaleWindow: time.Minute}, clockAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create block provider", zap.Error(err))
		}
		eventMonitor, err = monitor.NewMonitor(dataStore, registry, caller, blocks, clockAdapter, monitor.Config{
			Interval:      cfg.Monitor.Interval,
			MaxBlockRange: cfg.Monitor.MaxBlockRange,
			Watches:       cfg.Monitor.Watches,
		})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create event monitor", zap.Error(err))
		}
		eventMonitor.Handle(domain.EventTransfer, monitor.NFTCountHandler(dataStore))
		if err := eventMonitor.Start(ctx); err != nil {
			logger.FatalCtx(ctx, "Failed to start event monitor", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Event monitor started", zap.Int("watches", len(eventMonitor.Watches())))
	}

	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, dataStore, coordinator, pages, auth)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}
	if eventMonitor != nil {
		if err := eventMonitor.Stop(shutdownCtx); err != nil {
			logger.ErrorCtx(shutdownCtx, err, zap.String("component", "monitor"))
		}
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
