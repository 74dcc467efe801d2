package contracts

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
)

const erc721JSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"name":"tokenOfOwnerByIndex","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"tokensOfOwner","outputs":[{"name":"","type":"uint256[]"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"to","type":"address"},{"name":"uri","type":"string"}],"name":"mint","outputs":[{"name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":true,"name":"tokenId","type":"uint256"}],"name":"Transfer","type":"event"}
]`

const stakingJSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"getStakedTokens","outputs":[{"name":"tokenIds","type":"uint256[]"},{"name":"stakedAt","type":"uint256[]"}],"stateMutability":"view","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"owner","type":"address"},{"indexed":true,"name":"tokenId","type":"uint256"},{"indexed":false,"name":"timestamp","type":"uint256"}],"name":"Staked","type":"event"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"owner","type":"address"},{"indexed":true,"name":"tokenId","type":"uint256"},{"indexed":false,"name":"timestamp","type":"uint256"}],"name":"Unstaked","type":"event"}
]`

var (
	// ERC721 covers enumeration, metadata, minting and the Transfer event
	ERC721 = mustParse(erc721JSON)
	// Staking covers the staking contract reads and its events
	Staking = mustParse(stakingJSON)
)

// ErrEventMismatch is returned when a log does not belong to the expected event
var ErrEventMismatch = errors.New("log does not match event")

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid contract abi: %v", err))
	}
	return parsed
}

// ForContractType returns the ABI of a watched contract type
func ForContractType(ct domain.ContractType) (abi.ABI, error) {
	switch ct {
	case domain.ContractTypeNFT:
		return ERC721, nil
	case domain.ContractTypeStaking:
		return Staking, nil
	default:
		return abi.ABI{}, fmt.Errorf("unknown contract type %q", ct)
	}
}

// EventTopic returns the topic0 hash of eventName in contractABI
func EventTopic(contractABI abi.ABI, eventName string) (common.Hash, error) {
	event, ok := contractABI.Events[eventName]
	if !ok {
		return common.Hash{}, fmt.Errorf("event %s not found in abi", eventName)
	}
	return event.ID, nil
}

// DecodeLog decodes the indexed and data arguments of a log into a JSON
// friendly map. Addresses become lowercase hex and integers decimal strings.
func DecodeLog(contractABI abi.ABI, eventName string, log types.Log) (map[string]interface{}, error) {
	event, ok := contractABI.Events[eventName]
	if !ok {
		return nil, fmt.Errorf("event %s not found in abi", eventName)
	}
	if len(log.Topics) == 0 || log.Topics[0] != event.ID {
		return nil, ErrEventMismatch
	}

	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if len(log.Topics)-1 != len(indexed) {
		return nil, fmt.Errorf("%w: expected %d indexed topics, got %d", ErrEventMismatch, len(indexed), len(log.Topics)-1)
	}

	raw := make(map[string]interface{})
	if err := abi.ParseTopicsIntoMap(raw, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse topics: %w", err)
	}
	if len(log.Data) > 0 {
		if err := contractABI.UnpackIntoMap(raw, eventName, log.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack data: %w", err)
		}
	}

	args := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		args[k] = normalizeValue(v)
	}
	return args, nil
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case common.Address:
		return strings.ToLower(val.Hex())
	case *big.Int:
		return val.String()
	case common.Hash:
		return val.Hex()
	default:
		return v
	}
}
