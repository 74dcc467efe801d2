package minter

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/chain"
	"github.com/feral-file/ff-nft-lifecycle/internal/contracts"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/rpc"
)

const (
	defaultReceiptTimeout = 2 * time.Minute
	defaultPollInterval   = 2 * time.Second
	// gasHeadroom is added on top of the estimate, in percent
	gasHeadroom = 20
)

var (
	// ErrMintReverted is returned when the mint transaction was mined with a failed status
	ErrMintReverted = errors.New("mint transaction reverted")
	// ErrMintEventMissing is returned when the receipt carries no mint Transfer
	ErrMintEventMissing = errors.New("mint transfer event not found in receipt")
)

// MintResult is the outcome of a confirmed mint
type MintResult struct {
	TxHash          string
	TokenID         string
	ContractAddress string
	Chain           domain.Chain
	BlockNumber     uint64
}

// Config holds configuration for the Minter
type Config struct {
	// GasLimit overrides gas estimation when non-zero
	GasLimit       uint64
	ReceiptTimeout time.Duration
	PollInterval   time.Duration
}

// Minter mints ERC-721 tokens and waits for their confirmation
//
//go:generate mockgen -source=minter.go -destination=../mocks/minter.go -package=mocks -mock_names=Minter=MockMinter
type Minter interface {
	// Mint mints a token with metadataURI to wallet on network and returns
	// once the transaction is mined
	Mint(ctx context.Context, wallet string, network chain.Network, metadataURI string) (*MintResult, error)
}

type minter struct {
	caller rpc.Caller
	signer Signer
	config Config
}

// NewMinter creates a Minter
func NewMinter(caller rpc.Caller, signer Signer, config Config) Minter {
	if config.ReceiptTimeout <= 0 {
		config.ReceiptTimeout = defaultReceiptTimeout
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	return &minter{caller: caller, signer: signer, config: config}
}

func (m *minter) Mint(ctx context.Context, wallet string, network chain.Network, metadataURI string) (*MintResult, error) {
	if network.NFTContract == "" {
		return nil, fmt.Errorf("no nft contract configured on %s", network.Chain)
	}
	if !common.IsHexAddress(wallet) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidWallet, wallet)
	}

	data, err := contracts.ERC721.Pack("mint", common.HexToAddress(wallet), metadataURI)
	if err != nil {
		return nil, fmt.Errorf("failed to pack mint call: %w", err)
	}
	contract := common.HexToAddress(network.NFTContract)

	// The transaction is built and signed once. Only its broadcast is swept
	// across endpoints so a send that reached one node is never re-signed
	// with a fresh nonce.
	var signed *types.Transaction
	err = m.caller.Do(ctx, network.RPCEndpoints, "mint_build", func(ctx context.Context, client adapter.EthClient) error {
		tx, err := m.buildAndSign(ctx, client, contract, data)
		if err != nil {
			return err
		}
		signed = tx
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build mint: %w", err)
	}
	txHash := signed.Hash()

	err = m.caller.Do(ctx, network.RPCEndpoints, "eth_sendRawTransaction", func(ctx context.Context, client adapter.EthClient) error {
		if err := client.SendTransaction(ctx, signed); err != nil && !isAlreadyKnown(err) && !isNonceTooLow(err) {
			return fmt.Errorf("failed to send transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit mint %s: %w", txHash.Hex(), err)
	}

	logger.InfoCtx(ctx, "Mint submitted",
		zap.String("chain", string(network.Chain)),
		zap.String("wallet", wallet),
		zap.String("txHash", txHash.Hex()))

	receipt, err := m.waitReceipt(ctx, network, txHash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", ErrMintReverted, txHash.Hex())
	}

	tokenID, err := mintedTokenID(receipt, contract, common.HexToAddress(wallet))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, txHash.Hex())
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}
	return &MintResult{
		TxHash:          strings.ToLower(txHash.Hex()),
		TokenID:         tokenID,
		ContractAddress: network.NFTContract,
		Chain:           network.Chain,
		BlockNumber:     block,
	}, nil
}

// buildAndSign simulates the mint through gas estimation and signs a legacy transaction
func (m *minter) buildAndSign(ctx context.Context, client adapter.EthClient, contract common.Address, data []byte) (*types.Transaction, error) {
	from := m.signer.Address()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit := m.config.GasLimit
	if gasLimit == 0 {
		estimate, err := client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &contract, Data: data})
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "execution reverted") {
				return nil, rpc.Fatal(fmt.Errorf("mint simulation reverted: %w", err))
			}
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gasLimit = estimate + estimate*gasHeadroom/100
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &contract,
		Value:    big.NewInt(0),
		Data:     data,
	})
	signed, err := m.signer.SignTx(ctx, tx, chainID)
	if err != nil {
		return nil, rpc.Fatal(err)
	}
	return signed, nil
}

// waitReceipt polls for the receipt until it is mined or the receipt timeout passes
func (m *minter) waitReceipt(ctx context.Context, network chain.Network, txHash common.Hash) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, m.config.ReceiptTimeout)
	defer cancel()

	var receipt *types.Receipt
	operation := func() error {
		err := m.caller.Do(waitCtx, network.RPCEndpoints, "eth_getTransactionReceipt", func(ctx context.Context, client adapter.EthClient) error {
			r, err := client.TransactionReceipt(ctx, txHash)
			if err != nil {
				return err
			}
			receipt = r
			return nil
		})
		if err != nil && rpc.KindOf(err) == rpc.KindFatal {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(m.config.PollInterval), waitCtx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, fmt.Errorf("failed to get receipt for %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

// mintedTokenID finds the Transfer from the zero address to wallet emitted by contract
func mintedTokenID(receipt *types.Receipt, contract, wallet common.Address) (string, error) {
	for _, log := range receipt.Logs {
		if log == nil || log.Address != contract {
			continue
		}
		args, err := contracts.DecodeLog(contracts.ERC721, domain.EventTransfer, *log)
		if err != nil {
			continue
		}
		if args["from"] != domain.ETHEREUM_ZERO_ADDRESS {
			continue
		}
		if args["to"] != strings.ToLower(wallet.Hex()) {
			continue
		}
		if id, ok := args["tokenId"].(string); ok {
			return id, nil
		}
	}
	return "", ErrMintEventMissing
}

func isAlreadyKnown(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already known") || strings.Contains(msg, "known transaction")
}

// isNonceTooLow reports a rejection of a resend whose nonce was already
// consumed, normally by the same signed transaction on another node
func isNonceTooLow(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "nonce too low")
}
