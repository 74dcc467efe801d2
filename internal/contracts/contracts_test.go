package contracts_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-nft-lifecycle/internal/contracts"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
)

var (
	fromAddr = common.HexToAddress("0x00000000000000000000000000000000000000Aa")
	toAddr   = common.HexToAddress("0x00000000000000000000000000000000000000bB")
)

func uintTopic(v int64) common.Hash {
	return common.BigToHash(big.NewInt(v))
}

func TestDecodeLog_Transfer(t *testing.T) {
	topic, err := contracts.EventTopic(contracts.ERC721, domain.EventTransfer)
	require.NoError(t, err)

	log := types.Log{
		Topics: []common.Hash{
			topic,
			common.BytesToHash(fromAddr.Bytes()),
			common.BytesToHash(toAddr.Bytes()),
			uintTopic(77),
		},
	}

	args, err := contracts.DecodeLog(contracts.ERC721, domain.EventTransfer, log)
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", args["from"])
	assert.Equal(t, "0x00000000000000000000000000000000000000bb", args["to"])
	assert.Equal(t, "77", args["tokenId"])
}

func TestDecodeLog_Staked(t *testing.T) {
	topic, err := contracts.EventTopic(contracts.Staking, domain.EventStaked)
	require.NoError(t, err)

	log := types.Log{
		Topics: []common.Hash{
			topic,
			common.BytesToHash(toAddr.Bytes()),
			uintTopic(5),
		},
		Data: common.LeftPadBytes(big.NewInt(1700000000).Bytes(), 32),
	}

	args, err := contracts.DecodeLog(contracts.Staking, domain.EventStaked, log)
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000bb", args["owner"])
	assert.Equal(t, "5", args["tokenId"])
	assert.Equal(t, "1700000000", args["timestamp"])
}

func TestDecodeLog_Mismatch(t *testing.T) {
	stakedTopic, err := contracts.EventTopic(contracts.Staking, domain.EventStaked)
	require.NoError(t, err)

	_, err = contracts.DecodeLog(contracts.ERC721, domain.EventTransfer, types.Log{Topics: []common.Hash{stakedTopic}})
	assert.ErrorIs(t, err, contracts.ErrEventMismatch)

	_, err = contracts.DecodeLog(contracts.ERC721, domain.EventTransfer, types.Log{})
	assert.ErrorIs(t, err, contracts.ErrEventMismatch)

	// ERC-20 Transfer shares the topic but only indexes two arguments
	transferTopic, err := contracts.EventTopic(contracts.ERC721, domain.EventTransfer)
	require.NoError(t, err)
	_, err = contracts.DecodeLog(contracts.ERC721, domain.EventTransfer, types.Log{
		Topics: []common.Hash{transferTopic, common.BytesToHash(fromAddr.Bytes()), common.BytesToHash(toAddr.Bytes())},
		Data:   common.LeftPadBytes(big.NewInt(1).Bytes(), 32),
	})
	assert.ErrorIs(t, err, contracts.ErrEventMismatch)

	_, err = contracts.DecodeLog(contracts.ERC721, "Approval", types.Log{})
	assert.Error(t, err)
}

func TestForContractType(t *testing.T) {
	a, err := contracts.ForContractType(domain.ContractTypeNFT)
	require.NoError(t, err)
	assert.Contains(t, a.Methods, "tokenURI")

	a, err = contracts.ForContractType(domain.ContractTypeStaking)
	require.NoError(t, err)
	assert.Contains(t, a.Events, domain.EventUnstaked)

	_, err = contracts.ForContractType("marketplace")
	assert.Error(t, err)
}
