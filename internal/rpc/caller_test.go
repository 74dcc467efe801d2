package rpc_test

import (
	"context"
	"errors"
	"math/big"
	"os"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/mocks"
	"github.com/feral-file/ff-nft-lifecycle/internal/rpc"
)

const (
	contractAddr = "0x1111111111111111111111111111111111111111"
	walletAddr   = "0x2222222222222222222222222222222222222222"
	endpointA    = "https://rpc-a.example/key"
	endpointB    = "https://rpc-b.example/key"
)

const balanceOfABI = `[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}]`

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testMocks struct {
	ctrl    *gomock.Controller
	dialer  *mocks.MockEthClientDialer
	clientA *mocks.MockEthClient
	clientB *mocks.MockEthClient
}

func setupTest(t *testing.T) *testMocks {
	ctrl := gomock.NewController(t)
	return &testMocks{
		ctrl:    ctrl,
		dialer:  mocks.NewMockEthClientDialer(ctrl),
		clientA: mocks.NewMockEthClient(ctrl),
		clientB: mocks.NewMockEthClient(ctrl),
	}
}

func (m *testMocks) tearDown() {
	m.ctrl.Finish()
}

func parsedABI(t *testing.T) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(balanceOfABI))
	require.NoError(t, err)
	return parsed
}

func uint256(v int64) []byte {
	return common.LeftPadBytes(big.NewInt(v).Bytes(), 32)
}

type revertError struct{}

func (revertError) Error() string  { return "execution reverted" }
func (revertError) ErrorCode() int { return 3 }

func TestCaller_Call(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*testMocks)
		wantErr    bool
		wantKind   rpc.ErrorKind
		wantValue  int64
	}{
		{
			name: "first endpoint answers",
			setupMocks: func(m *testMocks) {
				m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)
				m.clientA.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(uint256(3), nil)
			},
			wantValue: 3,
		},
		{
			name: "dial failure falls through to next endpoint",
			setupMocks: func(m *testMocks) {
				gomock.InOrder(
					m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(nil, errors.New("connection refused")),
					m.dialer.EXPECT().Dial(gomock.Any(), endpointB).Return(m.clientB, nil),
				)
				m.clientB.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(uint256(7), nil)
			},
			wantValue: 7,
		},
		{
			name: "desynced node falls through to next endpoint",
			setupMocks: func(m *testMocks) {
				m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)
				m.dialer.EXPECT().Dial(gomock.Any(), endpointB).Return(m.clientB, nil)
				m.clientA.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, errors.New("missing trie node"))
				m.clientB.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(uint256(1), nil)
			},
			wantValue: 1,
		},
		{
			name: "malformed return data falls through to next endpoint",
			setupMocks: func(m *testMocks) {
				m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)
				m.dialer.EXPECT().Dial(gomock.Any(), endpointB).Return(m.clientB, nil)
				m.clientA.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return([]byte{0x01}, nil)
				m.clientB.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(uint256(2), nil)
			},
			wantValue: 2,
		},
		{
			name: "every endpoint reverts",
			setupMocks: func(m *testMocks) {
				m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)
				m.dialer.EXPECT().Dial(gomock.Any(), endpointB).Return(m.clientB, nil)
				m.clientA.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, revertError{})
				m.clientB.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, errors.New("execution reverted"))
			},
			wantErr:  true,
			wantKind: rpc.KindNotSupported,
		},
		{
			name: "every endpoint returns empty data",
			setupMocks: func(m *testMocks) {
				m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)
				m.dialer.EXPECT().Dial(gomock.Any(), endpointB).Return(m.clientB, nil)
				m.clientA.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return([]byte{}, nil)
				m.clientB.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, nil)
			},
			wantErr:  true,
			wantKind: rpc.KindNotSupported,
		},
		{
			name: "revert mixed with outage is transient",
			setupMocks: func(m *testMocks) {
				m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)
				m.dialer.EXPECT().Dial(gomock.Any(), endpointB).Return(nil, errors.New("i/o timeout"))
				m.clientA.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, revertError{})
			},
			wantErr:  true,
			wantKind: rpc.KindTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTest(t)
			defer m.tearDown()
			tt.setupMocks(m)

			caller := rpc.NewCaller(m.dialer)
			out, err := caller.Call(context.Background(), []string{endpointA, endpointB}, parsedABI(t), contractAddr, "balanceOf", common.HexToAddress(walletAddr))

			if tt.wantErr {
				require.Error(t, err)
				var sweep *rpc.SweepError
				require.True(t, errors.As(err, &sweep))
				assert.Equal(t, tt.wantKind, sweep.Kind)
				assert.Len(t, sweep.Failures, 2)
				assert.Equal(t, tt.wantKind == rpc.KindNotSupported, rpc.IsNotSupported(err))
				assert.NotContains(t, err.Error(), "/key")
				return
			}
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.Equal(t, tt.wantValue, out[0].(*big.Int).Int64())
		})
	}
}

func TestCaller_Call_Fatal(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	caller := rpc.NewCaller(m.dialer)

	_, err := caller.Call(context.Background(), []string{endpointA}, parsedABI(t), contractAddr, "ownerOf", big.NewInt(1))
	require.Error(t, err)
	assert.Equal(t, rpc.KindFatal, rpc.KindOf(err))

	_, err = caller.Call(context.Background(), []string{endpointA}, parsedABI(t), "not-an-address", "balanceOf", common.HexToAddress(walletAddr))
	require.Error(t, err)
	assert.Equal(t, rpc.KindFatal, rpc.KindOf(err))

	_, err = caller.Call(context.Background(), nil, parsedABI(t), contractAddr, "balanceOf", common.HexToAddress(walletAddr))
	require.Error(t, err)
	assert.Equal(t, rpc.KindFatal, rpc.KindOf(err))
	assert.ErrorIs(t, err, rpc.ErrNoEndpoints)
}

func TestCaller_ReusesConnections(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil).Times(1)
	m.clientA.EXPECT().BlockNumber(gomock.Any()).Return(uint64(100), nil)
	m.clientA.EXPECT().BlockNumber(gomock.Any()).Return(uint64(101), nil)
	m.clientA.EXPECT().Close()

	caller := rpc.NewCaller(m.dialer)
	head, err := caller.BlockNumber(context.Background(), []string{endpointA})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), head)

	head, err = caller.BlockNumber(context.Background(), []string{endpointA})
	require.NoError(t, err)
	assert.Equal(t, uint64(101), head)

	caller.Close()
}

func TestCaller_StrictOrderEveryCall(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)
	m.dialer.EXPECT().Dial(gomock.Any(), endpointB).Return(m.clientB, nil)
	gomock.InOrder(
		m.clientA.EXPECT().BlockNumber(gomock.Any()).Return(uint64(0), errors.New("503 service unavailable")),
		m.clientB.EXPECT().BlockNumber(gomock.Any()).Return(uint64(50), nil),
		// the failed endpoint is tried first again on the next call
		m.clientA.EXPECT().BlockNumber(gomock.Any()).Return(uint64(51), nil),
	)

	caller := rpc.NewCaller(m.dialer)
	head, err := caller.BlockNumber(context.Background(), []string{endpointA, endpointB})
	require.NoError(t, err)
	assert.Equal(t, uint64(50), head)

	head, err = caller.BlockNumber(context.Background(), []string{endpointA, endpointB})
	require.NoError(t, err)
	assert.Equal(t, uint64(51), head)
}

func TestCaller_Do_FatalStopsSweep(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)

	caller := rpc.NewCaller(m.dialer)
	err := caller.Do(context.Background(), []string{endpointA, endpointB}, "custom", func(ctx context.Context, _ adapter.EthClient) error {
		return rpc.Fatal(errors.New("bad input"))
	})
	require.Error(t, err)
	assert.Equal(t, rpc.KindFatal, rpc.KindOf(err))
}

func TestCaller_Do_CancelledContext(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	caller := rpc.NewCaller(m.dialer)
	err := caller.Do(ctx, []string{endpointA, endpointB}, "custom", func(ctx context.Context, _ adapter.EthClient) error {
		t.Fatal("fn must not run on a cancelled context")
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, rpc.KindTransient, rpc.KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCaller_BlockTime(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)
	m.clientA.EXPECT().HeaderByNumber(gomock.Any(), big.NewInt(42)).Return(&types.Header{Time: 1700000000}, nil)

	caller := rpc.NewCaller(m.dialer)
	ts, err := caller.BlockTime(context.Background(), []string{endpointA}, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), ts)
}

func TestCaller_FilterLogs(t *testing.T) {
	t.Run("range is chunked", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)

		var ranges [][2]uint64
		m.clientA.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
				ranges = append(ranges, [2]uint64{q.FromBlock.Uint64(), q.ToBlock.Uint64()})
				return []types.Log{{BlockNumber: q.FromBlock.Uint64()}}, nil
			}).Times(3)

		caller := rpc.NewCaller(m.dialer)
		logs, err := caller.FilterLogs(context.Background(), []string{endpointA}, ethereum.FilterQuery{}, 1, 10, 4)
		require.NoError(t, err)
		assert.Len(t, logs, 3)
		assert.Equal(t, [][2]uint64{{1, 4}, {5, 8}, {9, 10}}, ranges)
	})

	t.Run("chunk halves on too many results", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		m.dialer.EXPECT().Dial(gomock.Any(), endpointA).Return(m.clientA, nil)

		var ranges [][2]uint64
		m.clientA.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
				from, to := q.FromBlock.Uint64(), q.ToBlock.Uint64()
				ranges = append(ranges, [2]uint64{from, to})
				if to-from > 4 {
					return nil, errors.New("query returned more than 10000 results")
				}
				return []types.Log{{BlockNumber: from}}, nil
			}).AnyTimes()

		caller := rpc.NewCaller(m.dialer)
		logs, err := caller.FilterLogs(context.Background(), []string{endpointA}, ethereum.FilterQuery{}, 0, 9, 100)
		require.NoError(t, err)
		assert.Equal(t, [][2]uint64{{0, 9}, {0, 4}, {5, 9}}, ranges)
		require.Len(t, logs, 2)
		assert.Equal(t, uint64(0), logs[0].BlockNumber)
		assert.Equal(t, uint64(5), logs[1].BlockNumber)
	})

	t.Run("empty range", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		caller := rpc.NewCaller(m.dialer)
		logs, err := caller.FilterLogs(context.Background(), []string{endpointA}, ethereum.FilterQuery{}, 10, 9, 100)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}
