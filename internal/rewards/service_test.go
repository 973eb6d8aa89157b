package rewards

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/gpoffer/group-offers/internal/events"
	kafkax "github.com/gpoffer/group-offers/internal/kafka"
	"github.com/gpoffer/group-offers/internal/wallet"
)

type fakeCreditor struct {
	calls []wallet.CreditParams
	err   error
}

func (f *fakeCreditor) Credit(_ context.Context, p wallet.CreditParams) (*wallet.Transaction, int, error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return nil, 0, f.err
	}
	return &wallet.Transaction{ID: 77, UserID: p.UserID, Amount: p.Amount, Type: p.Type}, p.Amount, nil
}

func orderCreatedMessage(t *testing.T, total float64) kafkago.Message {
	t.Helper()
	env := events.Envelope{
		EventID:      "evt-1",
		EventType:    events.EventOrderCreated,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		Payload: kafkax.MustMarshal(events.OrderCreatedPayload{
			OrderID:     42,
			OfferID:     7,
			BuyerID:     3,
			SellerID:    5,
			Quantity:    2,
			UnitPrice:   total / 2,
			TotalAmount: total,
		}),
	}
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Value: b}
}

func TestHandleOrderCreatedCredits(t *testing.T) {
	f := &fakeCreditor{}
	s := &Service{Wallet: f, ServiceName: "rewards-test", Rate: 0.1}

	err := s.HandleOrderCreated(context.Background(), orderCreatedMessage(t, 180))
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	p := f.calls[0]
	require.Equal(t, int64(3), p.UserID)
	require.Equal(t, 18, p.Amount)
	require.Equal(t, wallet.TypePurchase, p.Type)
	require.Equal(t, "Reward for order #42", p.Description)
	require.Equal(t, "order:42", p.ReferenceID)
}

func TestHandleOrderCreatedFloorsFraction(t *testing.T) {
	f := &fakeCreditor{}
	s := &Service{Wallet: f, Rate: 0.1}

	require.NoError(t, s.HandleOrderCreated(context.Background(), orderCreatedMessage(t, 99)))
	require.Len(t, f.calls, 1)
	require.Equal(t, 9, f.calls[0].Amount)
}

func TestHandleOrderCreatedZeroRateSkips(t *testing.T) {
	f := &fakeCreditor{}
	s := &Service{Wallet: f, Rate: 0}

	require.NoError(t, s.HandleOrderCreated(context.Background(), orderCreatedMessage(t, 500)))
	require.Empty(t, f.calls)
}

func TestHandleOrderCreatedSubPointTotalSkips(t *testing.T) {
	f := &fakeCreditor{}
	s := &Service{Wallet: f, Rate: 0.1}

	require.NoError(t, s.HandleOrderCreated(context.Background(), orderCreatedMessage(t, 5)))
	require.Empty(t, f.calls)
}

func TestHandleOrderCreatedIgnoresOtherEvents(t *testing.T) {
	f := &fakeCreditor{}
	s := &Service{Wallet: f, Rate: 1}

	env := events.Envelope{
		EventID:   "evt-2",
		EventType: events.EventPointsCredited,
		Payload:   json.RawMessage(`{}`),
	}
	b, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, s.HandleOrderCreated(context.Background(), kafkago.Message{Value: b}))
	require.Empty(t, f.calls)
}

func TestHandleOrderCreatedBadEnvelope(t *testing.T) {
	f := &fakeCreditor{}
	s := &Service{Wallet: f, Rate: 1}

	err := s.HandleOrderCreated(context.Background(), kafkago.Message{Value: []byte("{not json")})
	require.Error(t, err)
	require.Empty(t, f.calls)
}

func TestHandleOrderCreatedCreditError(t *testing.T) {
	boom := errors.New("db down")
	f := &fakeCreditor{err: boom}
	s := &Service{Wallet: f, Rate: 1}

	err := s.HandleOrderCreated(context.Background(), orderCreatedMessage(t, 10))
	require.ErrorIs(t, err, boom)
}
