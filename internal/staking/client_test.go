package staking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-nft-lifecycle/internal/mocks"
	"github.com/feral-file/ff-nft-lifecycle/internal/staking"
)

const wallet = "0x00000000000000000000000000000000000000AA"

func TestClient_StakedItemIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := staking.NewClient(httpClient, "https://staking.example/", "secret")

	httpClient.EXPECT().
		GetJSON(gomock.Any(), "https://staking.example/wallets/0x00000000000000000000000000000000000000aa/staked-items", map[string]string{"X-API-KEY": "secret"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, result interface{}) error {
			result.(*staking.StakedItemsResponse).ItemIDs = []string{"item-1", "item-2"}
			return nil
		})

	staked, err := client.StakedItemIDs(context.Background(), wallet)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"item-1": true, "item-2": true}, staked)
}

func TestClient_StakedItemIDs_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := staking.NewClient(httpClient, "https://staking.example", "")

	httpClient.EXPECT().GetJSON(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any()).Return(errors.New("unexpected status code 503"))

	_, err := client.StakedItemIDs(context.Background(), wallet)
	assert.Error(t, err)
}

func TestClient_NotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := staking.NewClient(mocks.NewMockHTTPClient(ctrl), "", "")

	_, err := client.StakedItemIDs(context.Background(), wallet)
	assert.ErrorIs(t, err, staking.ErrNotConfigured)
	assert.ErrorIs(t, client.SyncStake(context.Background(), staking.StakeEvent{}), staking.ErrNotConfigured)
}

func TestClient_SyncStake(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := staking.NewClient(httpClient, "https://staking.example", "secret")

	ts := time.Unix(1700000000, 0).UTC()
	httpClient.EXPECT().
		PostJSON(gomock.Any(), "https://staking.example/stakes", map[string]string{"X-API-KEY": "secret"}, staking.StakeEvent{
			Wallet:          "0x00000000000000000000000000000000000000aa",
			Chain:           "eip155:1",
			ContractAddress: "0x000000000000000000000000000000000000000a",
			TokenID:         "5",
			Staked:          true,
			Timestamp:       ts,
			TxHash:          "0xabc",
		}, nil).
		Return(nil)

	err := client.SyncStake(context.Background(), staking.StakeEvent{
		Wallet:          wallet,
		Chain:           "eip155:1",
		ContractAddress: "0x000000000000000000000000000000000000000A",
		TokenID:         "5",
		Staked:          true,
		Timestamp:       ts,
		TxHash:          "0xabc",
	})
	require.NoError(t, err)
}
