package chain

import (
	"fmt"
	"sort"

	"github.com/feral-file/ff-nft-lifecycle/internal/config"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
)

// Network is a configured EVM network with its own endpoint list and contracts.
// Every read names the network it targets; there is no process-wide active network.
type Network struct {
	Chain           domain.Chain
	Name            string
	Icon            string
	RPCEndpoints    []string
	NFTContract     string
	StakingContract string
}

// HasStaking reports whether a staking contract is deployed on the network
func (n Network) HasStaking() bool {
	return n.StakingContract != ""
}

// Registry looks up configured networks
type Registry interface {
	// Networks returns every configured network ordered by chain id
	Networks() []Network

	// Network returns the network for chain
	Network(chain domain.Chain) (Network, error)
}

type registry struct {
	ordered []Network
	byChain map[domain.Chain]Network
}

// NewRegistry builds a registry from the chain configuration
func NewRegistry(chains []config.ChainConfig) (Registry, error) {
	if len(chains) == 0 {
		return nil, domain.ErrNoChainsConfigured
	}

	r := &registry{byChain: make(map[domain.Chain]Network, len(chains))}
	for _, c := range chains {
		if len(c.RPCEndpoints) == 0 {
			return nil, fmt.Errorf("chain %d has no rpc endpoints", c.ChainID)
		}
		n := Network{
			Chain:           c.Chain(),
			Name:            c.Name,
			Icon:            c.Icon,
			RPCEndpoints:    append([]string(nil), c.RPCEndpoints...),
			NFTContract:     domain.NormalizeAddress(c.NFTContract),
			StakingContract: domain.NormalizeAddress(c.StakingContract),
		}
		if _, dup := r.byChain[n.Chain]; dup {
			return nil, fmt.Errorf("chain %s configured twice", n.Chain)
		}
		r.byChain[n.Chain] = n
		r.ordered = append(r.ordered, n)
	}

	sort.Slice(r.ordered, func(i, j int) bool {
		a, _ := r.ordered[i].Chain.ID()
		b, _ := r.ordered[j].Chain.ID()
		return a < b
	})
	return r, nil
}

func (r *registry) Networks() []Network {
	return append([]Network(nil), r.ordered...)
}

func (r *registry) Network(chain domain.Chain) (Network, error) {
	n, ok := r.byChain[chain]
	if !ok {
		return Network{}, fmt.Errorf("%w: %s", domain.ErrUnknownChain, chain)
	}
	return n, nil
}
