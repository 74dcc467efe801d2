package domain

import "errors"

var (
	// ErrAlreadyClaimed is returned when an item already has a claim record for the wallet
	ErrAlreadyClaimed = errors.New("item already claimed")

	// ErrClaimInProgress is returned when a claim for the same item is being submitted
	ErrClaimInProgress = errors.New("claim already in progress")

	// ErrItemNotFound is returned when an offchain item does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrNotOwner is returned when the wallet does not own the offchain item
	ErrNotOwner = errors.New("wallet does not own item")

	// ErrInvalidPage is returned for page numbers or sizes below one
	ErrInvalidPage = errors.New("invalid page")

	// ErrNoChainsConfigured is returned when no chain is available
	ErrNoChainsConfigured = errors.New("no chains configured")

	// ErrUnknownChain is returned for a chain that is not configured
	ErrUnknownChain = errors.New("unknown chain")

	// ErrInvalidWallet is returned for malformed wallet addresses
	ErrInvalidWallet = errors.New("invalid wallet address")
)
