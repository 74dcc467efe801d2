package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-nft-lifecycle/internal/store/schema"
)

const (
	testWallet   = "0x1111111111111111111111111111111111111111"
	otherWallet  = "0x2222222222222222222222222222222222222222"
	testContract = "0xaaaa000000000000000000000000000000000001"
	testChain    = "eip155:137"
)

// RunStoreTests runs the store behaviour tests against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	t.Run("OffchainItems", func(t *testing.T) { testOffchainItems(t, initDB) })
	t.Run("ClaimRecords", func(t *testing.T) { testClaimRecords(t, initDB) })
	t.Run("EventRecords", func(t *testing.T) { testEventRecords(t, initDB) })
	t.Run("Checkpoints", func(t *testing.T) { testCheckpoints(t, initDB) })
	t.Run("NFTCounts", func(t *testing.T) { testNFTCounts(t, initDB) })
}

func buildTestItem(id, owner, rarity string) UpsertOffchainItemInput {
	return UpsertOffchainItemInput{
		ID:          id,
		OwnerWallet: owner,
		Name:        "Item " + id,
		ContentHash: "bafy" + id,
		Rarity:      rarity,
		Attributes:  datatypes.JSON(`[{"trait_type":"rarity","value":"` + rarity + `"}]`),
	}
}

func buildTransfer(tx string, block uint64, from, to, tokenID string) CreateEventRecordInput {
	return CreateEventRecordInput{
		Chain:           testChain,
		ContractType:    "nft",
		ContractAddress: testContract,
		EventName:       "Transfer",
		TxHash:          tx,
		BlockNumber:     block,
		Timestamp:       time.Unix(1700000000+int64(block), 0).UTC(),
		Payload:         []byte(fmt.Sprintf(`{"from":"%s","to":"%s","tokenId":"%s"}`, from, to, tokenID)),
	}
}

func testOffchainItems(t *testing.T, initDB func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("upsert and list by owner", func(t *testing.T) {
		s := initDB(t)
		require.NoError(t, s.UpsertOffchainItems(ctx, []UpsertOffchainItemInput{
			buildTestItem("a", "0x1111111111111111111111111111111111111111", "rare"),
			buildTestItem("b", testWallet, ""),
			buildTestItem("c", otherWallet, "epic"),
		}))

		items, err := s.GetOffchainItemsByOwner(ctx, "0x1111111111111111111111111111111111111111")
		require.NoError(t, err)
		require.Len(t, items, 2)

		byID := map[string]schema.OffchainItem{}
		for _, it := range items {
			byID[it.ID] = it
		}
		assert.Equal(t, "rare", byID["a"].Rarity)
		assert.Equal(t, "common", byID["b"].Rarity)
	})

	t.Run("upsert refreshes existing item", func(t *testing.T) {
		s := initDB(t)
		require.NoError(t, s.UpsertOffchainItems(ctx, []UpsertOffchainItemInput{buildTestItem("a", testWallet, "rare")}))

		updated := buildTestItem("a", testWallet, "legendary")
		updated.Name = "Renamed"
		require.NoError(t, s.UpsertOffchainItems(ctx, []UpsertOffchainItemInput{updated}))

		item, err := s.GetOffchainItem(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "Renamed", item.Name)
		assert.Equal(t, "legendary", item.Rarity)
	})

	t.Run("missing item returns nil", func(t *testing.T) {
		s := initDB(t)
		item, err := s.GetOffchainItem(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("get by ids", func(t *testing.T) {
		s := initDB(t)
		require.NoError(t, s.UpsertOffchainItems(ctx, []UpsertOffchainItemInput{
			buildTestItem("a", testWallet, "rare"),
			buildTestItem("b", testWallet, "rare"),
		}))

		items, err := s.GetOffchainItemsByIDs(ctx, []string{"b", "zzz"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "b", items[0].ID)

		items, err = s.GetOffchainItemsByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func testClaimRecords(t *testing.T, initDB func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create claim once", func(t *testing.T) {
		s := initDB(t)
		input := CreateClaimRecordInput{
			Wallet:          "0x1111111111111111111111111111111111111111",
			ItemID:          "item-1",
			Chain:           testChain,
			ContractAddress: testContract,
			TokenID:         "7",
			TxHash:          "0xtx1",
		}

		rec, created, err := s.CreateClaimRecord(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Len(t, rec.ID, 26)
		assert.Equal(t, schema.ClaimKindMint, rec.Kind)

		input.TxHash = "0xtx2"
		again, created, err := s.CreateClaimRecord(ctx, input)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, rec.ID, again.ID)
		assert.Equal(t, "0xtx1", again.TxHash)
	})

	t.Run("lookup by wallet and item", func(t *testing.T) {
		s := initDB(t)
		_, _, err := s.CreateClaimRecord(ctx, CreateClaimRecordInput{Wallet: testWallet, ItemID: "item-1", Chain: testChain, ContractAddress: testContract, TokenID: "1", TxHash: "0x1"})
		require.NoError(t, err)
		_, _, err = s.CreateClaimRecord(ctx, CreateClaimRecordInput{Wallet: testWallet, ItemID: "item-2", Chain: testChain, ContractAddress: testContract, TokenID: "2", TxHash: "0x2", Kind: schema.ClaimKindBookkeeping})
		require.NoError(t, err)

		rec, err := s.GetClaimRecord(ctx, testWallet, "item-2")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, schema.ClaimKindBookkeeping, rec.Kind)

		rec, err = s.GetClaimRecord(ctx, otherWallet, "item-1")
		require.NoError(t, err)
		assert.Nil(t, rec)

		recs, err := s.GetClaimRecordsByWallet(ctx, testWallet)
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})
}

func testEventRecords(t *testing.T, initDB func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("duplicate event is stored once", func(t *testing.T) {
		s := initDB(t)
		in := buildTransfer("0xABC", 100, "0x0000000000000000000000000000000000000000", testWallet, "1")

		first, created, err := s.UpsertEventRecord(ctx, in)
		require.NoError(t, err)
		assert.True(t, created)
		assert.False(t, first.Processed)

		require.NoError(t, s.MarkEventProcessed(ctx, first.ID))

		second, created, err := s.UpsertEventRecord(ctx, in)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.Processed)
		assert.Equal(t, "0xabc", second.TxHash)
	})

	t.Run("different event name is a different record", func(t *testing.T) {
		s := initDB(t)
		in := buildTransfer("0xabc", 100, "0x0000000000000000000000000000000000000000", testWallet, "1")
		_, created, err := s.UpsertEventRecord(ctx, in)
		require.NoError(t, err)
		assert.True(t, created)

		in.EventName = "Staked"
		_, created, err = s.UpsertEventRecord(ctx, in)
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func testCheckpoints(t *testing.T, initDB func(t *testing.T) Store) {
	ctx := context.Background()
	key := CheckpointKey{ContractType: "nft", EventName: "Transfer", Chain: testChain}

	t.Run("missing checkpoint", func(t *testing.T) {
		s := initDB(t)
		_, ok, err := s.GetCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("checkpoint never moves backward", func(t *testing.T) {
		s := initDB(t)
		require.NoError(t, s.AdvanceCheckpoint(ctx, key, 500))
		require.NoError(t, s.AdvanceCheckpoint(ctx, key, 300))

		block, ok, err := s.GetCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, uint64(500), block)

		require.NoError(t, s.AdvanceCheckpoint(ctx, key, 900))
		block, _, err = s.GetCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(900), block)
	})

	t.Run("pairs are independent", func(t *testing.T) {
		s := initDB(t)
		require.NoError(t, s.AdvanceCheckpoint(ctx, key, 500))

		other := CheckpointKey{ContractType: "staking", EventName: "Staked", Chain: testChain}
		_, ok, err := s.GetCheckpoint(ctx, other)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func testNFTCounts(t *testing.T, initDB func(t *testing.T) Store) {
	ctx := context.Background()
	zero := "0x0000000000000000000000000000000000000000"

	t.Run("count follows latest transfer per token", func(t *testing.T) {
		s := initDB(t)
		for _, in := range []CreateEventRecordInput{
			buildTransfer("0x01", 10, zero, testWallet, "1"),
			buildTransfer("0x02", 11, zero, testWallet, "2"),
			buildTransfer("0x03", 12, zero, testWallet, "3"),
			buildTransfer("0x04", 20, testWallet, otherWallet, "2"),
		} {
			require.NoError(t, s.RecordEventLog(ctx, in))
		}

		count, err := s.RecomputeNFTCount(ctx, testChain, testContract, testWallet)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = s.RecomputeNFTCount(ctx, testChain, testContract, otherWallet)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		stored, err := s.GetNFTCount(ctx, testChain, testContract, testWallet)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stored)
	})

	t.Run("batch transfer counts every log of the transaction", func(t *testing.T) {
		s := initDB(t)
		first := buildTransfer("0x05", 30, zero, testWallet, "10")
		second := buildTransfer("0x05", 30, zero, testWallet, "11")
		second.LogIndex = 1

		// both logs share the event record key but not the log key
		_, created, err := s.UpsertEventRecord(ctx, first)
		require.NoError(t, err)
		assert.True(t, created)
		_, created, err = s.UpsertEventRecord(ctx, second)
		require.NoError(t, err)
		assert.False(t, created)

		require.NoError(t, s.RecordEventLog(ctx, first))
		require.NoError(t, s.RecordEventLog(ctx, second))
		// replays of a log are ignored
		require.NoError(t, s.RecordEventLog(ctx, second))

		logs, err := s.GetEventLogsByTx(ctx, testChain, testContract, "Transfer", "0x05")
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, uint(0), logs[0].LogIndex)
		assert.Equal(t, uint(1), logs[1].LogIndex)

		count, err := s.RecomputeNFTCount(ctx, testChain, testContract, testWallet)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("later log in the same transaction wins", func(t *testing.T) {
		s := initDB(t)
		mint := buildTransfer("0x06", 40, zero, testWallet, "20")
		move := buildTransfer("0x06", 40, testWallet, otherWallet, "20")
		move.LogIndex = 1
		require.NoError(t, s.RecordEventLog(ctx, move))
		require.NoError(t, s.RecordEventLog(ctx, mint))

		count, err := s.RecomputeNFTCount(ctx, testChain, testContract, testWallet)
		require.NoError(t, err)
		assert.Zero(t, count)

		count, err = s.RecomputeNFTCount(ctx, testChain, testContract, otherWallet)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown wallet has zero", func(t *testing.T) {
		s := initDB(t)
		count, err := s.GetNFTCount(ctx, testChain, testContract, otherWallet)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
