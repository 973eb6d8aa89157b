package redisx

import "time"

const (
	// Cached offer snapshot: offer:{offer_id} -> offer JSON
	KeyOffer = "offer:%d"

	// Cached active-offer listing (single key, whole list)
	KeyActiveOffers = "offers:active"

	// Cached wallet balance: wallet:balance:{user_id} -> int
	KeyWalletBalance = "wallet:balance:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOfferCache   = 1 * time.Minute
	TTLBalanceCache = 30 * time.Second
	TTLDedup        = 48 * time.Hour
)
