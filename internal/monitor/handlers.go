package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/messaging"
	"github.com/feral-file/ff-nft-lifecycle/internal/staking"
	"github.com/feral-file/ff-nft-lifecycle/internal/store"
)

// NFTCountHandler recounts holdings of every wallet a Transfer transaction
// touched. A transaction may carry several Transfer logs, all of which are
// read back from the log table.
func NFTCountHandler(st store.Store) Handler {
	return func(ctx context.Context, event domain.ChainEvent) error {
		logs, err := st.GetEventLogsByTx(ctx, string(event.Chain), event.ContractAddress, event.EventName, event.TxHash)
		if err != nil {
			return fmt.Errorf("failed to load logs of %s: %w", event.TxHash, err)
		}

		wallets := make([]string, 0, 2*len(logs)+2)
		seen := make(map[string]struct{})
		add := func(wallet string) {
			wallet = strings.ToLower(wallet)
			if wallet == "" || wallet == domain.ETHEREUM_ZERO_ADDRESS {
				return
			}
			if _, ok := seen[wallet]; ok {
				return
			}
			seen[wallet] = struct{}{}
			wallets = append(wallets, wallet)
		}

		add(stringArg(event.Args, "from"))
		add(stringArg(event.Args, "to"))
		for _, l := range logs {
			add(gjson.GetBytes(l.Payload, "from").String())
			add(gjson.GetBytes(l.Payload, "to").String())
		}

		for _, wallet := range wallets {
			count, err := st.RecomputeNFTCount(ctx, string(event.Chain), event.ContractAddress, wallet)
			if err != nil {
				return fmt.Errorf("failed to recompute count of %s: %w", wallet, err)
			}
			logger.DebugCtx(ctx, "NFT count recomputed",
				zap.String("wallet", wallet),
				zap.Int64("count", count))
		}
		return nil
	}
}

// StakeSyncHandler forwards Staked and Unstaked events to the staking collaborator
func StakeSyncHandler(syncer staking.RecordSyncer) Handler {
	return func(ctx context.Context, event domain.ChainEvent) error {
		wallet := stringArg(event.Args, "owner")
		tokenID := stringArg(event.Args, "tokenId")
		if wallet == "" || tokenID == "" {
			return fmt.Errorf("stake event %s is missing owner or tokenId", event.TxHash)
		}

		timestamp := event.Timestamp
		if secs, err := strconv.ParseInt(stringArg(event.Args, "timestamp"), 10, 64); err == nil && secs > 0 {
			timestamp = time.Unix(secs, 0).UTC()
		}

		return syncer.SyncStake(ctx, staking.StakeEvent{
			Wallet:          wallet,
			Chain:           event.Chain,
			ContractAddress: event.ContractAddress,
			TokenID:         tokenID,
			Staked:          event.EventName == domain.EventStaked,
			Timestamp:       timestamp,
			TxHash:          event.TxHash,
		})
	}
}

// PublishHandler fans events out to the message broker
func PublishHandler(pub messaging.Publisher) Handler {
	return func(ctx context.Context, event domain.ChainEvent) error {
		return pub.PublishEvent(ctx, event)
	}
}

func stringArg(args map[string]interface{}, name string) string {
	v, ok := args[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
