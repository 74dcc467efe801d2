package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gowebpki/jcs"
	"go.uber.org/zap"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/block"
	"github.com/feral-file/ff-nft-lifecycle/internal/chain"
	"github.com/feral-file/ff-nft-lifecycle/internal/config"
	"github.com/feral-file/ff-nft-lifecycle/internal/contracts"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/metrics"
	"github.com/feral-file/ff-nft-lifecycle/internal/rpc"
	"github.com/feral-file/ff-nft-lifecycle/internal/store"
)

const defaultInterval = 30 * time.Second

var (
	// ErrAlreadyStarted is returned by Start on a running monitor
	ErrAlreadyStarted = errors.New("monitor already started")
	// ErrNoWatches is returned when there is nothing to poll
	ErrNoWatches = errors.New("no watches configured")
)

// Handler reacts to a stored, not yet processed event
type Handler func(ctx context.Context, event domain.ChainEvent) error

// Config holds configuration for the Monitor
type Config struct {
	// Interval is the default delay between polls of a watch
	Interval time.Duration
	// MaxBlockRange bounds the block span of a single log query
	MaxBlockRange uint64
	Watches       []config.WatchConfig
}

// Watch is a resolved (contract type, event) pair on one network
type Watch struct {
	ContractType domain.ContractType
	Network      chain.Network
	Contract     string
	Event        string
	StartBlock   uint64
	Interval     time.Duration

	abi   abi.ABI
	topic common.Hash
}

// Key identifies the checkpoint of the watch
func (w Watch) Key() store.CheckpointKey {
	return store.CheckpointKey{
		ContractType: string(w.ContractType),
		EventName:    w.Event,
		Chain:        string(w.Network.Chain),
	}
}

// Monitor polls contract logs and reconciles them into event records
//
//go:generate mockgen -source=monitor.go -destination=../mocks/monitor.go -package=mocks -mock_names=Monitor=MockMonitor
type Monitor interface {
	// Handle registers a handler for an event name. Handlers must be
	// registered before Start.
	Handle(eventName string, h Handler)

	// Start launches one polling task per watch, the first poll runs immediately
	Start(ctx context.Context) error

	// Stop cancels every task and waits for in-flight polls or ctx
	Stop(ctx context.Context) error

	// PollOnce runs a single reconciliation tick for a watch
	PollOnce(ctx context.Context, w Watch) error

	// Watches returns the resolved watches
	Watches() []Watch
}

type monitor struct {
	store  store.Store
	caller rpc.Caller
	blocks block.BlockProvider
	clock  adapter.Clock
	config Config

	watches  []Watch
	handlers map[string][]Handler

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor resolves the configured watches against the registry
func NewMonitor(
	st store.Store,
	registry chain.Registry,
	caller rpc.Caller,
	blocks block.BlockProvider,
	clock adapter.Clock,
	cfg Config,
) (Monitor, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.MaxBlockRange == 0 {
		cfg.MaxBlockRange = rpc.DefaultMaxBlockRange
	}

	watches := make([]Watch, 0, len(cfg.Watches))
	for _, wc := range cfg.Watches {
		w, err := resolveWatch(registry, wc, cfg.Interval)
		if err != nil {
			return nil, err
		}
		watches = append(watches, w)
	}

	return &monitor{
		store:    st,
		caller:   caller,
		blocks:   blocks,
		clock:    clock,
		config:   cfg,
		watches:  watches,
		handlers: make(map[string][]Handler),
	}, nil
}

func resolveWatch(registry chain.Registry, wc config.WatchConfig, interval time.Duration) (Watch, error) {
	network, err := registry.Network(domain.ChainFromID(wc.ChainID))
	if err != nil {
		return Watch{}, fmt.Errorf("watch %s/%s: %w", wc.ContractType, wc.Event, err)
	}

	contractABI, err := contracts.ForContractType(wc.ContractType)
	if err != nil {
		return Watch{}, err
	}
	topic, err := contracts.EventTopic(contractABI, wc.Event)
	if err != nil {
		return Watch{}, fmt.Errorf("watch %s/%s: %w", wc.ContractType, wc.Event, err)
	}

	contract := domain.NormalizeAddress(wc.Contract)
	if contract == "" {
		switch wc.ContractType {
		case domain.ContractTypeNFT:
			contract = network.NFTContract
		case domain.ContractTypeStaking:
			contract = network.StakingContract
		}
	}
	if !common.IsHexAddress(contract) {
		return Watch{}, fmt.Errorf("watch %s/%s on %s has no contract address", wc.ContractType, wc.Event, network.Chain)
	}

	if wc.Interval > 0 {
		interval = wc.Interval
	}

	return Watch{
		ContractType: wc.ContractType,
		Network:      network,
		Contract:     contract,
		Event:        wc.Event,
		StartBlock:   wc.StartBlock,
		Interval:     interval,
		abi:          contractABI,
		topic:        topic,
	}, nil
}

func (m *monitor) Watches() []Watch {
	return append([]Watch(nil), m.watches...)
}

func (m *monitor) Handle(eventName string, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[eventName] = append(m.handlers[eventName], h)
}

func (m *monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return ErrAlreadyStarted
	}
	if len(m.watches) == 0 {
		return ErrNoWatches
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	for _, w := range m.watches {
		m.wg.Add(1)
		go m.run(runCtx, w)
	}

	logger.InfoCtx(ctx, "Event monitor started", zap.Int("watches", len(m.watches)))
	return nil
}

func (m *monitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoCtx(ctx, "Event monitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *monitor) run(ctx context.Context, w Watch) {
	defer m.wg.Done()

	for {
		// a tick in progress finishes even when stop is requested
		if err := m.PollOnce(context.WithoutCancel(ctx), w); err != nil {
			logger.WarnCtx(ctx, "Monitor poll failed",
				zap.String("chain", string(w.Network.Chain)),
				zap.String("contractType", string(w.ContractType)),
				zap.String("event", w.Event),
				zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-m.clock.After(w.Interval):
		}
	}
}

func (m *monitor) PollOnce(ctx context.Context, w Watch) error {
	key := w.Key()

	checkpoint, ok, err := m.store.GetCheckpoint(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read checkpoint: %w", err)
	}

	latest, err := m.blocks.GetLatestBlock(ctx, w.Network)
	if err != nil {
		return err
	}

	if !ok {
		if w.StartBlock == 0 {
			// nothing to backfill, follow the chain from here on
			if err := m.store.AdvanceCheckpoint(ctx, key, latest); err != nil {
				return fmt.Errorf("failed to initialize checkpoint: %w", err)
			}
			metrics.SetMonitorCheckpoint(key.Chain, key.ContractType, key.EventName, latest)
			logger.InfoCtx(ctx, "Monitor starting from chain head",
				zap.String("chain", key.Chain),
				zap.String("event", key.EventName),
				zap.Uint64("block", latest))
			return nil
		}
		checkpoint = w.StartBlock - 1
	}

	if latest <= checkpoint {
		return nil
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{common.HexToAddress(w.Contract)},
		Topics:    [][]common.Hash{{w.topic}},
	}
	logs, err := m.caller.FilterLogs(ctx, w.Network.RPCEndpoints, query, checkpoint+1, latest, m.config.MaxBlockRange)
	if err != nil {
		return fmt.Errorf("failed to fetch logs %d-%d: %w", checkpoint+1, latest, err)
	}

	// handlers read back every log of a transaction, so all logs are recorded first
	events := make([]domain.ChainEvent, 0, len(logs))
	payloads := make([][]byte, 0, len(logs))
	for _, log := range logs {
		if log.Removed {
			continue
		}
		args, err := contracts.DecodeLog(w.abi, w.Event, log)
		if err != nil {
			// foreign shapes sharing the topic, such as ERC-20 Transfer
			logger.DebugCtx(ctx, "Skipping undecodable log",
				zap.String("txHash", log.TxHash.Hex()),
				zap.Error(err))
			metrics.RecordMonitorEvent(key.ContractType, key.EventName, "skipped")
			continue
		}

		timestamp, err := m.blocks.GetBlockTimestamp(ctx, w.Network, log.BlockNumber)
		if err != nil {
			return err
		}

		event := domain.ChainEvent{
			Chain:           w.Network.Chain,
			ContractType:    w.ContractType,
			ContractAddress: w.Contract,
			EventName:       w.Event,
			TxHash:          log.TxHash.Hex(),
			BlockNumber:     log.BlockNumber,
			LogIndex:        log.Index,
			Timestamp:       timestamp,
			Args:            args,
		}
		payload, err := canonicalPayload(event.Args)
		if err != nil {
			return err
		}
		if err := m.store.RecordEventLog(ctx, recordInput(event, payload)); err != nil {
			return fmt.Errorf("failed to record log %s/%d: %w", event.TxHash, event.LogIndex, err)
		}
		events = append(events, event)
		payloads = append(payloads, payload)
	}

	for i, event := range events {
		if err := m.reconcile(ctx, event, payloads[i]); err != nil {
			return err
		}
	}

	if err := m.store.AdvanceCheckpoint(ctx, key, latest); err != nil {
		return fmt.Errorf("failed to advance checkpoint: %w", err)
	}
	metrics.SetMonitorCheckpoint(key.Chain, key.ContractType, key.EventName, latest)

	logger.DebugCtx(ctx, "Monitor tick complete",
		zap.String("chain", key.Chain),
		zap.String("event", key.EventName),
		zap.Uint64("from", checkpoint+1),
		zap.Uint64("to", latest),
		zap.Int("logs", len(logs)))
	return nil
}

// reconcile stores an event and runs its handlers once. Only store
// failures are returned; handler failures leave the event unprocessed.
func (m *monitor) reconcile(ctx context.Context, event domain.ChainEvent, payload []byte) error {
	rec, _, err := m.store.UpsertEventRecord(ctx, recordInput(event, payload))
	if err != nil {
		return fmt.Errorf("failed to store event %s: %w", event.TxHash, err)
	}

	if rec.Processed {
		metrics.RecordMonitorEvent(string(event.ContractType), event.EventName, "duplicate")
		return nil
	}

	if err := m.dispatch(ctx, event); err != nil {
		metrics.RecordMonitorEvent(string(event.ContractType), event.EventName, "handler_failed")
		logger.WarnCtx(ctx, "Event handler failed",
			zap.String("event", event.EventName),
			zap.String("txHash", event.TxHash),
			zap.Error(err))
		return nil
	}

	if err := m.store.MarkEventProcessed(ctx, rec.ID); err != nil {
		return fmt.Errorf("failed to mark event %d processed: %w", rec.ID, err)
	}
	metrics.RecordMonitorEvent(string(event.ContractType), event.EventName, "processed")
	return nil
}

func (m *monitor) dispatch(ctx context.Context, event domain.ChainEvent) error {
	m.mu.Lock()
	handlers := m.handlers[event.EventName]
	m.mu.Unlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func recordInput(event domain.ChainEvent, payload []byte) store.CreateEventRecordInput {
	return store.CreateEventRecordInput{
		Chain:           string(event.Chain),
		ContractType:    string(event.ContractType),
		ContractAddress: event.ContractAddress,
		EventName:       event.EventName,
		TxHash:          event.TxHash,
		BlockNumber:     event.BlockNumber,
		LogIndex:        event.LogIndex,
		Timestamp:       event.Timestamp,
		Payload:         payload,
	}
}

func canonicalPayload(args map[string]interface{}) ([]byte, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event args: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize event args: %w", err)
	}
	return canonical, nil
}
