package minter_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-nft-lifecycle/internal/chain"
	"github.com/feral-file/ff-nft-lifecycle/internal/contracts"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/minter"
	"github.com/feral-file/ff-nft-lifecycle/internal/mocks"
	"github.com/feral-file/ff-nft-lifecycle/internal/rpc"
)

const (
	wallet   = "0x00000000000000000000000000000000000000aa"
	contract = "0x000000000000000000000000000000000000000a"
	endpoint = "https://rpc.example"
	backup   = "https://rpc-backup.example"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// keySigner signs with an in-memory key
type keySigner struct {
	key *ecdsa.PrivateKey
}

func (s *keySigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

func (s *keySigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

type testMocks struct {
	ctrl   *gomock.Controller
	dialer *mocks.MockEthClientDialer
	client *mocks.MockEthClient
	signer *keySigner
}

func setupTest(t *testing.T) *testMocks {
	ctrl := gomock.NewController(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &testMocks{
		ctrl:   ctrl,
		dialer: mocks.NewMockEthClientDialer(ctrl),
		client: mocks.NewMockEthClient(ctrl),
		signer: &keySigner{key: key},
	}
}

func (m *testMocks) tearDown() {
	m.ctrl.Finish()
}

func network() chain.Network {
	return chain.Network{
		Chain:        "eip155:1",
		RPCEndpoints: []string{endpoint, backup},
		NFTContract:  contract,
	}
}

func mintReceipt(status uint64, tokenID int64) *types.Receipt {
	topic, _ := contracts.EventTopic(contracts.ERC721, domain.EventTransfer)
	return &types.Receipt{
		Status:      status,
		BlockNumber: big.NewInt(900),
		Logs: []*types.Log{
			{
				Address: common.HexToAddress(contract),
				Topics: []common.Hash{
					topic,
					{},
					common.BytesToHash(common.HexToAddress(wallet).Bytes()),
					common.BigToHash(big.NewInt(tokenID)),
				},
			},
		},
	}
}

func (m *testMocks) expectBuild(estimateErr error) {
	m.dialer.EXPECT().Dial(gomock.Any(), endpoint).Return(m.client, nil)
	m.client.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(1), nil)
	m.client.EXPECT().PendingNonceAt(gomock.Any(), m.signer.Address()).Return(uint64(5), nil)
	m.client.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1_000_000_000), nil)
	m.client.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
			if estimateErr != nil {
				return 0, estimateErr
			}
			return 100000, nil
		})
}

func newMinter(m *testMocks) minter.Minter {
	return minter.NewMinter(rpc.NewCaller(m.dialer), m.signer, minter.Config{
		ReceiptTimeout: time.Second,
		PollInterval:   time.Millisecond,
	})
}

func TestMinter_Mint_Success(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	m.expectBuild(nil)

	var sent *types.Transaction
	m.client.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *types.Transaction) error {
			sent = tx
			return nil
		})
	gomock.InOrder(
		m.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(nil, ethereum.NotFound),
		m.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(mintReceipt(types.ReceiptStatusSuccessful, 42), nil),
	)
	m.dialer.EXPECT().Dial(gomock.Any(), backup).Return(nil, errors.New("connection refused")).AnyTimes()

	result, err := newMinter(m).Mint(context.Background(), wallet, network(), "ipfs://QmContent")
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Equal(t, uint64(5), sent.Nonce())
	assert.Equal(t, uint64(120000), sent.Gas())
	assert.Equal(t, common.HexToAddress(contract), *sent.To())

	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), sent)
	require.NoError(t, err)
	assert.Equal(t, m.signer.Address(), from)

	assert.Equal(t, "42", result.TokenID)
	assert.Equal(t, contract, result.ContractAddress)
	assert.Equal(t, domain.Chain("eip155:1"), result.Chain)
	assert.Equal(t, uint64(900), result.BlockNumber)
	assert.Equal(t, sent.Hash().Hex(), common.HexToHash(result.TxHash).Hex())
}

func TestMinter_Mint_SimulationReverts(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	m.expectBuild(errors.New("execution reverted: already minted"))

	_, err := newMinter(m).Mint(context.Background(), wallet, network(), "ipfs://QmContent")
	require.Error(t, err)
	assert.Equal(t, rpc.KindFatal, rpc.KindOf(err))
}

func TestMinter_Mint_ReceiptReverted(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	m.expectBuild(nil)
	m.client.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(errors.New("already known"))
	m.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(mintReceipt(types.ReceiptStatusFailed, 0), nil)

	_, err := newMinter(m).Mint(context.Background(), wallet, network(), "ipfs://QmContent")
	assert.ErrorIs(t, err, minter.ErrMintReverted)
}

func TestMinter_Mint_MissingTransfer(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	m.expectBuild(nil)
	m.client.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(nil)
	m.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil)

	_, err := newMinter(m).Mint(context.Background(), wallet, network(), "ipfs://QmContent")
	assert.ErrorIs(t, err, minter.ErrMintEventMissing)
}

func TestMinter_Mint_InvalidInput(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	mt := newMinter(m)

	_, err := mt.Mint(context.Background(), "not-a-wallet", network(), "ipfs://QmContent")
	assert.ErrorIs(t, err, domain.ErrInvalidWallet)

	_, err = mt.Mint(context.Background(), wallet, chain.Network{Chain: "eip155:1", RPCEndpoints: []string{endpoint}}, "ipfs://QmContent")
	assert.Error(t, err)
}

func TestMinter_Mint_BroadcastFailoverResendsSameTransaction(t *testing.T) {
	tests := []struct {
		name      string
		backupErr error
	}{
		{name: "backup accepts", backupErr: nil},
		{name: "backup already has it", backupErr: errors.New("already known")},
		{name: "backup saw the nonce consumed", backupErr: errors.New("nonce too low: next nonce 6, tx nonce 5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTest(t)
			defer m.tearDown()

			backupClient := mocks.NewMockEthClient(m.ctrl)

			// Built and signed exactly once: a second nonce read would fail the expectations
			m.expectBuild(nil)

			var broadcast []*types.Transaction
			m.client.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, tx *types.Transaction) error {
					broadcast = append(broadcast, tx)
					return context.DeadlineExceeded
				})
			m.dialer.EXPECT().Dial(gomock.Any(), backup).Return(backupClient, nil)
			backupClient.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, tx *types.Transaction) error {
					broadcast = append(broadcast, tx)
					return tt.backupErr
				})
			m.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, hash common.Hash) (*types.Receipt, error) {
					require.Len(t, broadcast, 2)
					assert.Equal(t, broadcast[0].Hash(), hash)
					return mintReceipt(types.ReceiptStatusSuccessful, 7), nil
				})

			result, err := newMinter(m).Mint(context.Background(), wallet, network(), "ipfs://QmContent")
			require.NoError(t, err)

			require.Len(t, broadcast, 2)
			assert.Equal(t, broadcast[0].Hash(), broadcast[1].Hash())
			assert.Equal(t, uint64(5), broadcast[1].Nonce())
			assert.Equal(t, broadcast[0].Hash().Hex(), common.HexToHash(result.TxHash).Hex())
			assert.Equal(t, "7", result.TokenID)
		})
	}
}

func TestMinter_Mint_BroadcastFailsEverywhere(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	backupClient := mocks.NewMockEthClient(m.ctrl)

	m.expectBuild(nil)
	m.client.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	m.dialer.EXPECT().Dial(gomock.Any(), backup).Return(backupClient, nil)
	backupClient.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := newMinter(m).Mint(context.Background(), wallet, network(), "ipfs://QmContent")
	require.Error(t, err)
	assert.Equal(t, rpc.KindTransient, rpc.KindOf(err))
}
