package staking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
)

// ErrNotConfigured is returned when no staking service URL is configured
var ErrNotConfigured = errors.New("staking service not configured")

// StakedItemsResponse is the staking service answer for a wallet's offchain stakes
type StakedItemsResponse struct {
	ItemIDs []string `json:"item_ids"`
}

// StakeEvent is an onchain stake change pushed to the staking service
type StakeEvent struct {
	Wallet          string       `json:"wallet"`
	Chain           domain.Chain `json:"chain"`
	ContractAddress string       `json:"contract_address"`
	TokenID         string       `json:"token_id"`
	Staked          bool         `json:"staked"`
	Timestamp       time.Time    `json:"timestamp"`
	TxHash          string       `json:"tx_hash"`
}

// OffchainProvider reports which offchain items a wallet has staked
//
//go:generate mockgen -source=client.go -destination=../mocks/staking.go -package=mocks -mock_names=OffchainProvider=MockStakingProvider,RecordSyncer=MockStakingSyncer
type OffchainProvider interface {
	// StakedItemIDs returns the set of staked offchain item ids of wallet
	StakedItemIDs(ctx context.Context, wallet string) (map[string]bool, error)
}

// RecordSyncer mirrors onchain stake changes into the staking service
type RecordSyncer interface {
	// SyncStake records a Staked or Unstaked event. It must be idempotent per tx hash.
	SyncStake(ctx context.Context, event StakeEvent) error
}

// Client talks to the staking service over HTTP and serves both roles
type Client struct {
	httpClient adapter.HTTPClient
	baseURL    string
	apiKey     string
}

// NewClient creates a staking service client
func NewClient(httpClient adapter.HTTPClient, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *Client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"X-API-KEY": c.apiKey}
}

// StakedItemIDs fetches the staked offchain items of wallet
func (c *Client) StakedItemIDs(ctx context.Context, wallet string) (map[string]bool, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/wallets/%s/staked-items", c.baseURL, url.PathEscape(domain.NormalizeAddress(wallet)))
	var resp StakedItemsResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get staked items: %w", err)
	}

	staked := make(map[string]bool, len(resp.ItemIDs))
	for _, id := range resp.ItemIDs {
		staked[id] = true
	}
	return staked, nil
}

// SyncStake pushes an onchain stake change
func (c *Client) SyncStake(ctx context.Context, event StakeEvent) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	event.Wallet = domain.NormalizeAddress(event.Wallet)
	event.ContractAddress = domain.NormalizeAddress(event.ContractAddress)
	if err := c.httpClient.PostJSON(ctx, c.baseURL+"/stakes", c.headers(), event, nil); err != nil {
		return fmt.Errorf("failed to sync stake: %w", err)
	}
	return nil
}
