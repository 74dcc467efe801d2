package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/block"
	"github.com/feral-file/ff-nft-lifecycle/internal/chain"
	"github.com/feral-file/ff-nft-lifecycle/internal/config"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/metrics"
	"github.com/feral-file/ff-nft-lifecycle/internal/monitor"
	"github.com/feral-file/ff-nft-lifecycle/internal/providers/jetstream"
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
	cfg, err := config.LoadEventMonitorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "event-monitor",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Event Monitor")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()

	registry, err := chain.NewRegistry(cfg.Chains)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to build chain registry", zap.Error(err))
	}

	caller := rpc.NewCaller(adapter.NewEthClientDialer())
	defer caller.Close()

	blocks, err := block.NewBlockProvider(caller, block.Config{TTL: 5 * time.Second, StaleWindow: time.Minute}, clockAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create block provider", zap.Error(err))
	}

	eventMonitor, err := monitor.NewMonitor(dataStore, registry, caller, blocks, clockAdapter, monitor.Config{
		Interval:      cfg.Monitor.Interval,
		MaxBlockRange: cfg.Monitor.MaxBlockRange,
		Watches:       cfg.Monitor.Watches,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create event monitor", zap.Error(err))
	}

	// Register handlers
	eventMonitor.Handle(domain.EventTransfer, monitor.NFTCountHandler(dataStore))

	if cfg.Staking.BaseURL != "" {
		syncer := staking.NewClient(adapter.NewHTTPClient(cfg.Staking.Timeout), cfg.Staking.BaseURL, cfg.Staking.APIKey)
		eventMonitor.Handle(domain.EventStaked, monitor.StakeSyncHandler(syncer))
		eventMonitor.Handle(domain.EventUnstaked, monitor.StakeSyncHandler(syncer))
	} else {
		logger.WarnCtx(ctx, "Staking service not configured, stake events will only be recorded")
	}

	if cfg.NATS.Enabled {
		natsPublisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream())
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer natsPublisher.Close()

		publish := monitor.PublishHandler(natsPublisher)
		for _, event := range []string{domain.EventTransfer, domain.EventStaked, domain.EventUnstaked} {
			eventMonitor.Handle(event, publish)
		}
		logger.InfoCtx(ctx, "Connected to NATS JetStream")
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	if err := eventMonitor.Start(ctx); err != nil {
		logger.FatalCtx(ctx, "Failed to start event monitor", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Event monitor started", zap.Int("watches", len(eventMonitor.Watches())))

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "metrics"))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := eventMonitor.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "monitor"))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "metrics"))
	}

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Event Monitor stopped")
}
