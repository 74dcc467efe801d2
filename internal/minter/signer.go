package minter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Signer signs transactions for the minting account. Keys never live in this process.
//
//go:generate mockgen -source=signer.go -destination=../mocks/minter_signer.go -package=mocks -mock_names=Signer=MockSigner
type Signer interface {
	// Address returns the account that pays for and sends mint transactions
	Address() common.Address

	// SignTx returns tx signed for chainID
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

type externalSigner struct {
	signer  *external.ExternalSigner
	account accounts.Account
}

// NewExternalSigner connects to a Clef compatible signer at endpoint and signs as address
func NewExternalSigner(endpoint, address string) (Signer, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid minter address %q", address)
	}
	ext, err := external.NewExternalSigner(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to external signer: %w", err)
	}
	return &externalSigner{
		signer:  ext,
		account: accounts.Account{Address: common.HexToAddress(address)},
	}, nil
}

func (s *externalSigner) Address() common.Address {
	return s.account.Address
}

func (s *externalSigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := s.signer.SignTx(s.account, tx, chainID)
	if err != nil {
		return nil, fmt.Errorf("external signer rejected transaction: %w", err)
	}
	return signed, nil
}
