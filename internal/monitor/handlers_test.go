package monitor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/mocks"
	"github.com/feral-file/ff-nft-lifecycle/internal/monitor"
	"github.com/feral-file/ff-nft-lifecycle/internal/staking"
	"github.com/feral-file/ff-nft-lifecycle/internal/store/schema"
)

func stakeEvent(name string, args map[string]interface{}) domain.ChainEvent {
	return domain.ChainEvent{
		Chain:           "eip155:137",
		ContractType:    domain.ContractTypeStaking,
		ContractAddress: stakingContract,
		EventName:       name,
		TxHash:          "0xstake",
		BlockNumber:     10,
		Timestamp:       time.Unix(1700000500, 0).UTC(),
		Args:            args,
	}
}

func TestStakeSyncHandler(t *testing.T) {
	tests := []struct {
		name    string
		event   domain.ChainEvent
		want    *staking.StakeEvent
		wantErr bool
	}{
		{
			name:  "staked uses the event timestamp argument",
			event: stakeEvent(domain.EventStaked, map[string]interface{}{"owner": holder, "tokenId": "7", "timestamp": "1700000000"}),
			want: &staking.StakeEvent{
				Wallet: holder, Chain: "eip155:137", ContractAddress: stakingContract, TokenID: "7",
				Staked: true, Timestamp: time.Unix(1700000000, 0).UTC(), TxHash: "0xstake",
			},
		},
		{
			name:  "unstaked falls back to the block time",
			event: stakeEvent(domain.EventUnstaked, map[string]interface{}{"owner": holder, "tokenId": "7"}),
			want: &staking.StakeEvent{
				Wallet: holder, Chain: "eip155:137", ContractAddress: stakingContract, TokenID: "7",
				Staked: false, Timestamp: time.Unix(1700000500, 0).UTC(), TxHash: "0xstake",
			},
		},
		{
			name:    "missing owner",
			event:   stakeEvent(domain.EventStaked, map[string]interface{}{"tokenId": "7"}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			syncer := mocks.NewMockStakingSyncer(ctrl)
			if tt.want != nil {
				syncer.EXPECT().SyncStake(gomock.Any(), *tt.want).Return(nil)
			}

			err := monitor.StakeSyncHandler(syncer)(context.Background(), tt.event)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStakeSyncHandler_PropagatesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncer := mocks.NewMockStakingSyncer(ctrl)
	syncer.EXPECT().SyncStake(gomock.Any(), gomock.Any()).Return(errors.New("503"))

	err := monitor.StakeSyncHandler(syncer)(context.Background(),
		stakeEvent(domain.EventStaked, map[string]interface{}{"owner": holder, "tokenId": "7"}))
	assert.Error(t, err)
}

func TestPublishHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	event := stakeEvent(domain.EventStaked, map[string]interface{}{"owner": holder, "tokenId": "7"})
	pub := mocks.NewMockPublisher(ctrl)
	pub.EXPECT().PublishEvent(gomock.Any(), event).Return(nil)

	assert.NoError(t, monitor.PublishHandler(pub)(context.Background(), event))
}

func TestNFTCountHandler_SkipsZeroAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	st.EXPECT().GetEventLogsByTx(gomock.Any(), "eip155:137", nftContract, domain.EventTransfer, "0xburn").Return(nil, nil)
	st.EXPECT().RecomputeNFTCount(gomock.Any(), "eip155:137", nftContract, holder).Return(int64(0), errors.New("deadlock"))

	event := domain.ChainEvent{
		Chain:           "eip155:137",
		ContractAddress: nftContract,
		EventName:       domain.EventTransfer,
		TxHash:          "0xburn",
		Args:            map[string]interface{}{"from": holder, "to": domain.ETHEREUM_ZERO_ADDRESS, "tokenId": "1"},
	}
	assert.Error(t, monitor.NFTCountHandler(st)(context.Background(), event))
}

func TestNFTCountHandler_RecountsEveryWalletOfTheTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	third := "0x00000000000000000000000000000000000000dd"
	st := mocks.NewMockStore(ctrl)
	st.EXPECT().GetEventLogsByTx(gomock.Any(), "eip155:137", nftContract, domain.EventTransfer, "0xbatch").Return([]schema.EventLog{
		{LogIndex: 0, Payload: []byte(`{"from":"` + holder + `","to":"` + receiver + `","tokenId":"1"}`)},
		{LogIndex: 1, Payload: []byte(`{"from":"` + holder + `","to":"` + receiver + `","tokenId":"2"}`)},
		{LogIndex: 2, Payload: []byte(`{"from":"` + holder + `","to":"` + third + `","tokenId":"3"}`)},
	}, nil)
	gomock.InOrder(
		st.EXPECT().RecomputeNFTCount(gomock.Any(), "eip155:137", nftContract, holder).Return(int64(0), nil),
		st.EXPECT().RecomputeNFTCount(gomock.Any(), "eip155:137", nftContract, receiver).Return(int64(2), nil),
		st.EXPECT().RecomputeNFTCount(gomock.Any(), "eip155:137", nftContract, third).Return(int64(1), nil),
	)

	event := domain.ChainEvent{
		Chain:           "eip155:137",
		ContractAddress: nftContract,
		EventName:       domain.EventTransfer,
		TxHash:          "0xbatch",
		Args:            map[string]interface{}{"from": holder, "to": receiver, "tokenId": "1"},
	}
	assert.NoError(t, monitor.NFTCountHandler(st)(context.Background(), event))
}

func TestNFTCountHandler_LogLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	st.EXPECT().GetEventLogsByTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
	st.EXPECT().RecomputeNFTCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	event := domain.ChainEvent{
		Chain:           "eip155:137",
		ContractAddress: nftContract,
		EventName:       domain.EventTransfer,
		TxHash:          "0xbatch",
		Args:            map[string]interface{}{"from": holder, "to": receiver, "tokenId": "1"},
	}
	assert.Error(t, monitor.NFTCountHandler(st)(context.Background(), event))
}
