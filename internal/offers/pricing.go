package offers

import "sort"

// ResolveUnitPrice selects the unit price for an order against an offer
// with the given discount schedule and participant count.
//
// Tiers are ordered by threshold descending and the first tier whose
// threshold is <= participants wins; with no qualifying tier the base
// price applies. The sort is stable, so among tiers sharing a threshold
// the one listed first in the schedule wins.
func ResolveUnitPrice(basePrice float64, tiers []DiscountTier, participants int) float64 {
	if len(tiers) == 0 {
		return basePrice
	}
	sorted := make([]DiscountTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Participants > sorted[j].Participants
	})
	for _, t := range sorted {
		if participants >= t.Participants {
			return t.Price
		}
	}
	return basePrice
}

// NormalizeStrategy drops tiers with negative thresholds or prices.
// Zero values stay: a stored tier missing a field decodes to zero and is
// honored permissively, matching how orders were always priced.
func NormalizeStrategy(tiers []DiscountTier) []DiscountTier {
	out := make([]DiscountTier, 0, len(tiers))
	for _, t := range tiers {
		if t.Participants < 0 || t.Price < 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}
