package events

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	EventOfferJoined    = "OfferJoined"
	EventOrderCreated   = "OrderCreated"
	EventPointsCredited = "PointsCredited"
)

const (
	TopicOfferJoined    = "offer.joined"
	TopicOrderCreated   = "order.created"
	TopicWalletCredited = "wallet.credited"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OfferJoinedPayload struct {
	OfferID          int64   `json:"offer_id"`
	UserID           int64   `json:"user_id"`
	CommitmentID     int64   `json:"commitment_id"`
	CommitmentAmount float64 `json:"commitment_amount"`
	Participants     int     `json:"participants"`
}

type OrderCreatedPayload struct {
	OrderID     int64   `json:"order_id"`
	OfferID     int64   `json:"offer_id"`
	BuyerID     int64   `json:"buyer_id"`
	SellerID    int64   `json:"seller_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalAmount float64 `json:"total_amount"`
}

type PointsCreditedPayload struct {
	UserID        int64  `json:"user_id"`
	Amount        int    `json:"amount"`
	NewBalance    int    `json:"new_balance"`
	TransactionID int64  `json:"transaction_id"`
	Reason        string `json:"reason,omitempty"`
}

// PartitionKey keeps every event for one entity on one partition so
// per-entity ordering is preserved.
func PartitionKey(id int64) []byte { return []byte(strconv.FormatInt(id, 10)) }
