// Package rank maps message counts to rank tiers and persists at most one
// assignment change (and one announcement) per user transition.
package rank

import (
	"context"
	"sort"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/events"
)

// Lister reads rank tiers.
type Lister interface {
	ListRanks(ctx context.Context, category string) ([]database.Rank, error)
}

// Catalog is the ordered set of rank tiers, optionally restricted to one category.
type Catalog struct {
	store    Lister
	category string
}

// NewCatalog returns a catalog over store. An empty category means every tier.
func NewCatalog(store Lister, category string) *Catalog {
	return &Catalog{store: store, category: category}
}

// Tiers returns the tiers ordered by threshold, then by ID.
func (c *Catalog) Tiers(ctx context.Context) ([]database.Rank, error) {
	tiers, err := c.store.ListRanks(ctx, c.category)
	if err != nil {
		return nil, err
	}
	sortTiers(tiers)
	return tiers, nil
}

// IsEligible reports whether messageCount reaches tier.
func IsEligible(tier database.Rank, messageCount int64) bool {
	return messageCount >= tier.MinMessages
}

// Best returns the eligible tier with the highest threshold. When several tiers
// share that threshold the one with the lowest ID wins. ok is false when no tier
// is eligible.
func Best(tiers []database.Rank, messageCount int64) (best database.Rank, ok bool) {
	ordered := append([]database.Rank(nil), tiers...)
	sortTiers(ordered)

	for _, tier := range ordered {
		if !IsEligible(tier, messageCount) {
			break
		}
		if !ok || tier.MinMessages > best.MinMessages {
			best, ok = tier, true
		}
	}
	return best, ok
}

// Next returns the lowest tier above messageCount, if any.
func Next(tiers []database.Rank, messageCount int64) (database.Rank, bool) {
	ordered := append([]database.Rank(nil), tiers...)
	sortTiers(ordered)

	for _, tier := range ordered {
		if !IsEligible(tier, messageCount) {
			return tier, true
		}
	}
	return database.Rank{}, false
}

func sortTiers(tiers []database.Rank) {
	sort.SliceStable(tiers, func(i, j int) bool {
		if tiers[i].MinMessages != tiers[j].MinMessages {
			return tiers[i].MinMessages < tiers[j].MinMessages
		}
		return tiers[i].ID < tiers[j].ID
	})
}

// Info converts a stored tier to its event form.
func Info(r database.Rank) events.RankInfo {
	return events.RankInfo{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		MinMessages: r.MinMessages,
		Description: r.Description,
		Emoji:       r.Emoji,
	}
}
