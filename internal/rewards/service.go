// Package rewards credits buyers loyalty points for completed order
// creations, asynchronously off the order.created topic.
package rewards

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/gpoffer/group-offers/internal/events"
	kafkax "github.com/gpoffer/group-offers/internal/kafka"
	"github.com/gpoffer/group-offers/internal/redisx"
	"github.com/gpoffer/group-offers/internal/wallet"
)

// Creditor is the slice of the wallet repo the service needs.
type Creditor interface {
	Credit(ctx context.Context, p wallet.CreditParams) (*wallet.Transaction, int, error)
}

type Service struct {
	Wallet      Creditor
	Redis       *redis.Client
	Producer    *kafkax.Producer // publishes wallet.credited
	ServiceName string
	Rate        float64 // points per currency unit of order total; 0 disables
}

// HandleOrderCreated is the consumer handler. Events are deduplicated by
// event id so a redelivered message cannot credit twice.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventOrderCreated {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "rewards", env.EventID)
	if s.Redis != nil {
		exists, _ := redisx.Exists(ctx, s.Redis, dkey)
		if exists {
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[events.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	points := int(math.Floor(p.TotalAmount * s.Rate))
	if points <= 0 {
		return nil
	}

	txn, newBalance, err := s.Wallet.Credit(ctx, wallet.CreditParams{
		UserID:      p.BuyerID,
		Amount:      points,
		Type:        wallet.TypePurchase,
		Description: fmt.Sprintf("Reward for order #%d", p.OrderID),
		ReferenceID: fmt.Sprintf("order:%d", p.OrderID),
	})
	if err != nil {
		return err
	}

	if s.Redis != nil {
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	if s.Producer != nil {
		ev := events.Envelope{
			EventID:       uuid.NewString(),
			EventType:     events.EventPointsCredited,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      s.ServiceName,
			TraceID:       env.TraceID,
			CorrelationID: env.CorrelationID,
			Payload: kafkax.MustMarshal(events.PointsCreditedPayload{
				UserID:        p.BuyerID,
				Amount:        points,
				NewBalance:    newBalance,
				TransactionID: txn.ID,
				Reason:        "order_reward",
			}),
		}
		s.Producer.Publish(events.PartitionKey(p.BuyerID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(events.EventPointsCredited)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}
	return nil
}
