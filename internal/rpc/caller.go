package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/metrics"
)

// DefaultMaxBlockRange is the initial block span of a single log query
const DefaultMaxBlockRange uint64 = 5000

// Caller executes read calls against an ordered list of RPC endpoints.
// Endpoints are always tried in the order given; the first success wins.
//
//go:generate mockgen -source=caller.go -destination=../mocks/rpc_caller.go -package=mocks -mock_names=Caller=MockRPCCaller
type Caller interface {
	// Do runs fn against each endpoint in order until one returns nil
	Do(ctx context.Context, endpoints []string, op string, fn func(ctx context.Context, client adapter.EthClient) error) error

	// Call packs method with args, performs an eth_call on address and
	// returns the unpacked outputs
	Call(ctx context.Context, endpoints []string, contractABI abi.ABI, address string, method string, args ...interface{}) ([]interface{}, error)

	// BlockNumber returns the chain head
	BlockNumber(ctx context.Context, endpoints []string) (uint64, error)

	// BlockTime returns the timestamp of a block in unix seconds
	BlockTime(ctx context.Context, endpoints []string, block uint64) (uint64, error)

	// FilterLogs returns the logs matching query between fromBlock and
	// toBlock inclusive, splitting the range into chunks of at most
	// maxRange blocks and halving a chunk when the node rejects it as too large
	FilterLogs(ctx context.Context, endpoints []string, query ethereum.FilterQuery, fromBlock, toBlock, maxRange uint64) ([]types.Log, error)

	// Close closes all dialed connections
	Close()
}

type caller struct {
	dialer adapter.EthClientDialer

	mu      sync.Mutex
	clients map[string]adapter.EthClient
}

// NewCaller creates a Caller that dials endpoints lazily through dialer
func NewCaller(dialer adapter.EthClientDialer) Caller {
	return &caller{
		dialer:  dialer,
		clients: make(map[string]adapter.EthClient),
	}
}

// client returns the connection for endpoint, dialing it on first use
func (c *caller) client(ctx context.Context, endpoint string) (adapter.EthClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[endpoint]; ok {
		return cl, nil
	}
	cl, err := c.dialer.Dial(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}
	c.clients[endpoint] = cl
	return cl, nil
}

func (c *caller) Do(ctx context.Context, endpoints []string, op string, fn func(ctx context.Context, client adapter.EthClient) error) error {
	if len(endpoints) == 0 {
		metrics.RecordRPCSweep(KindFatal.String())
		return &SweepError{Op: op, Kind: KindFatal, Failures: []EndpointError{{Err: ErrNoEndpoints}}}
	}

	sweep := &SweepError{Op: op}
	notSupported := 0
	for i, endpoint := range endpoints {
		if err := ctx.Err(); err != nil {
			sweep.Failures = append(sweep.Failures, EndpointError{Endpoint: endpoint, Err: err})
			break
		}

		err := c.try(ctx, endpoint, fn)
		if err == nil {
			if i > 0 {
				logger.DebugCtx(ctx, "rpc call served by fallback endpoint",
					zap.String("op", op),
					zap.Int("position", i))
			}
			metrics.RecordRPCSweep("success")
			return nil
		}

		var fatal *fatalError
		if errors.As(err, &fatal) {
			sweep.Kind = KindFatal
			sweep.Failures = append(sweep.Failures, EndpointError{Endpoint: endpoint, Err: err})
			metrics.RecordRPCSweep(sweep.Kind.String())
			return sweep
		}

		if errors.Is(err, ErrNotSupported) || isRevert(err) {
			notSupported++
		}
		metrics.RecordRPCEndpointFailure(endpoint)
		logger.DebugCtx(ctx, "rpc endpoint failed, trying next",
			zap.String("op", op),
			zap.String("endpoint", redact(endpoint)),
			zap.Error(err))
		sweep.Failures = append(sweep.Failures, EndpointError{Endpoint: endpoint, Err: err})
	}

	if notSupported == len(endpoints) {
		sweep.Kind = KindNotSupported
	} else {
		sweep.Kind = KindTransient
	}
	metrics.RecordRPCSweep(sweep.Kind.String())
	return sweep
}

func (c *caller) try(ctx context.Context, endpoint string, fn func(ctx context.Context, client adapter.EthClient) error) error {
	cl, err := c.client(ctx, endpoint)
	if err != nil {
		return err
	}
	return fn(ctx, cl)
}

func (c *caller) Call(ctx context.Context, endpoints []string, contractABI abi.ABI, address string, method string, args ...interface{}) ([]interface{}, error) {
	if !common.IsHexAddress(address) {
		return nil, &SweepError{Op: method, Kind: KindFatal, Failures: []EndpointError{{Err: fmt.Errorf("invalid contract address %q", address)}}}
	}
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, &SweepError{Op: method, Kind: KindFatal, Failures: []EndpointError{{Err: fmt.Errorf("failed to pack %s: %w", method, err)}}}
	}

	to := common.HexToAddress(address)
	msg := ethereum.CallMsg{To: &to, Data: data}

	var outputs []interface{}
	err = c.Do(ctx, endpoints, method, func(ctx context.Context, client adapter.EthClient) error {
		result, err := client.CallContract(ctx, msg, nil)
		if err != nil {
			return err
		}
		if len(result) == 0 {
			return ErrEmptyResult
		}
		out, err := contractABI.Unpack(method, result)
		if err != nil {
			// malformed return data from this node, the next one may answer correctly
			return fmt.Errorf("failed to unpack %s: %w", method, err)
		}
		outputs = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outputs, nil
}

func (c *caller) BlockNumber(ctx context.Context, endpoints []string) (uint64, error) {
	var head uint64
	err := c.Do(ctx, endpoints, "eth_blockNumber", func(ctx context.Context, client adapter.EthClient) error {
		n, err := client.BlockNumber(ctx)
		if err != nil {
			return err
		}
		head = n
		return nil
	})
	return head, err
}

func (c *caller) BlockTime(ctx context.Context, endpoints []string, block uint64) (uint64, error) {
	var ts uint64
	err := c.Do(ctx, endpoints, "eth_getBlockByNumber", func(ctx context.Context, client adapter.EthClient) error {
		header, err := client.HeaderByNumber(ctx, new(big.Int).SetUint64(block))
		if err != nil {
			return err
		}
		if header == nil {
			return fmt.Errorf("block %d not found", block)
		}
		ts = header.Time
		return nil
	})
	return ts, err
}

func (c *caller) FilterLogs(ctx context.Context, endpoints []string, query ethereum.FilterQuery, fromBlock, toBlock, maxRange uint64) ([]types.Log, error) {
	if fromBlock > toBlock {
		return nil, nil
	}
	if maxRange == 0 {
		maxRange = DefaultMaxBlockRange
	}

	var all []types.Log
	for start := fromBlock; start <= toBlock; {
		end := start + maxRange - 1
		if end > toBlock || end < start {
			end = toBlock
		}

		var chunk []types.Log
		err := c.Do(ctx, endpoints, "eth_getLogs", func(ctx context.Context, client adapter.EthClient) error {
			logs, err := filterLogsWithHalving(ctx, client, query, start, end)
			if err != nil {
				return err
			}
			chunk = logs
			return nil
		})
		if err != nil {
			return nil, err
		}
		all = append(all, chunk...)

		if end == toBlock {
			break
		}
		start = end + 1
	}
	return all, nil
}

// filterLogsWithHalving fetches [from, to] from one client, recursively
// splitting the range while the node reports too many results
func filterLogsWithHalving(ctx context.Context, client adapter.EthClient, query ethereum.FilterQuery, from, to uint64) ([]types.Log, error) {
	q := query
	q.FromBlock = new(big.Int).SetUint64(from)
	q.ToBlock = new(big.Int).SetUint64(to)

	logs, err := client.FilterLogs(ctx, q)
	if err == nil {
		return logs, nil
	}
	if !isTooManyResults(err) || from == to {
		return nil, err
	}

	mid := from + (to-from)/2
	logger.DebugCtx(ctx, "log range too large, splitting",
		zap.Uint64("from", from),
		zap.Uint64("to", to))

	left, err := filterLogsWithHalving(ctx, client, query, from, mid)
	if err != nil {
		return nil, err
	}
	right, err := filterLogsWithHalving(ctx, client, query, mid+1, to)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

func (c *caller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for endpoint, cl := range c.clients {
		cl.Close()
		delete(c.clients, endpoint)
	}
}
