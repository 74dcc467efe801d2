package pagecache

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
)

// Item is one entry of the combined offchain and onchain list
type Item struct {
	ID         string               `json:"id"`
	Status     domain.Status        `json:"status"`
	Metadata   domain.NFTMetadata   `json:"metadata"`
	Staked     bool                 `json:"staked"`
	ModifiedAt time.Time            `json:"modified_at"`
	Offchain   *domain.OffchainItem `json:"offchain,omitempty"`
	Onchain    *domain.OnchainItem  `json:"onchain,omitempty"`
}

func fromOffchain(it domain.OffchainItem) Item {
	return Item{
		ID:         it.ID,
		Status:     it.Status,
		Metadata:   it.Metadata,
		Staked:     it.Staked,
		ModifiedAt: it.UpdatedAt,
		Offchain:   &it,
	}
}

func fromOnchain(it domain.OnchainItem) Item {
	return Item{
		ID:         it.ID,
		Status:     it.Status,
		Metadata:   it.Metadata,
		Staked:     it.Staked,
		ModifiedAt: it.ModifiedAt,
		Onchain:    &it,
	}
}

// combine merges both phases into one list in display order. Staked
// items are dropped unless includeStaked is set.
func combine(offchain []domain.OffchainItem, onchain []domain.OnchainItem, includeStaked bool) []Item {
	items := make([]Item, 0, len(offchain)+len(onchain))
	for _, it := range onchain {
		if it.Staked && !includeStaked {
			continue
		}
		items = append(items, fromOnchain(it))
	}
	for _, it := range offchain {
		if it.Staked && !includeStaked {
			continue
		}
		items = append(items, fromOffchain(it))
	}
	slices.SortStableFunc(items, compareItems)
	return items
}

// compareItems orders by most recently modified, onchain before offchain,
// rarest first, then name and id
func compareItems(a, b Item) int {
	if c := b.ModifiedAt.Compare(a.ModifiedAt); c != 0 {
		return c
	}
	if c := cmp.Compare(phaseRank(b), phaseRank(a)); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Metadata.Rarity.Rank(), a.Metadata.Rarity.Rank()); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(a.Metadata.Name), strings.ToLower(b.Metadata.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func phaseRank(it Item) int {
	if it.Onchain != nil {
		return 1
	}
	return 0
}

// slicePage cuts a 1-based page out of a sorted list
func slicePage(items []Item, page, pageSize int) *Page {
	total := len(items)
	// Compare in pages before multiplying so huge page numbers cannot overflow
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	start := total
	if page-1 < pages {
		start = (page - 1) * pageSize
	}
	end := start + min(pageSize, total-start)

	out := make([]Item, end-start)
	copy(out, items[start:end])
	return &Page{
		Items:       out,
		HasMore:     end < total,
		TotalCount:  total,
		CurrentPage: page,
	}
}
