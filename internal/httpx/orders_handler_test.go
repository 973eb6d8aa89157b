package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gpoffer/group-offers/internal/events"
	"github.com/gpoffer/group-offers/internal/offers"
	"github.com/gpoffer/group-offers/internal/orders"
)

// fakeOrderStore prices orders off an in-memory offer the way the real
// repo does, so the handler tests exercise the tier resolution end to end.
type fakeOrderStore struct {
	offer  *offers.Offer
	orders map[int64]*orders.Order
	nextID int64
}

func newFakeOrderStore(offer *offers.Offer) *fakeOrderStore {
	return &fakeOrderStore{offer: offer, orders: map[int64]*orders.Order{}, nextID: 1}
}

func (s *fakeOrderStore) Create(_ context.Context, p orders.CreateParams) (*orders.Order, error) {
	if s.offer == nil || s.offer.ID != p.OfferID {
		return nil, offers.ErrNotFound
	}
	if !s.offer.Joinable(time.Now()) {
		return nil, offers.ErrNotActive
	}
	unit := offers.ResolveUnitPrice(s.offer.BasePrice, s.offer.DiscountStrategy, s.offer.CurrentParticipants)
	o := &orders.Order{
		ID:              s.nextID,
		OfferID:         p.OfferID,
		BuyerID:         p.BuyerID,
		SellerID:        s.offer.SupplierID,
		Quantity:        p.Quantity,
		UnitPrice:       unit,
		TotalAmount:     unit * float64(p.Quantity),
		PaymentMethod:   p.PaymentMethod,
		PaymentStatus:   orders.PaymentPending,
		OrderStatus:     orders.OrderPending,
		ShippingAddress: p.ShippingAddress,
		BuyerName:       p.BuyerName,
		BuyerPhone:      p.BuyerPhone,
		BuyerEmail:      p.BuyerEmail,
		Notes:           p.Notes,
	}
	s.nextID++
	s.orders[o.ID] = o
	return o, nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id int64) (*orders.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return o, nil
}

func (s *fakeOrderStore) ListByBuyer(_ context.Context, buyerID int64) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range s.orders {
		if o.BuyerID == buyerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListBySeller(_ context.Context, sellerID int64) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range s.orders {
		if o.SellerID == sellerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id int64, paymentStatus, orderStatus *string) (*orders.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	if paymentStatus != nil {
		o.PaymentStatus = *paymentStatus
	}
	if orderStatus != nil {
		o.OrderStatus = *orderStatus
	}
	return o, nil
}

func tieredOffer(participants int) *offers.Offer {
	return &offers.Offer{
		ID:         1,
		BasePrice:  100,
		SupplierID: 5,
		Status:     offers.StatusActive,
		Deadline:   time.Now().Add(24 * time.Hour),
		DiscountStrategy: []offers.DiscountTier{
			{Participants: 5, Price: 90},
			{Participants: 10, Price: 80},
		},
		CurrentParticipants: participants,
	}
}

func validOrderReq() CreateOrderReq {
	return CreateOrderReq{
		OfferID:         1,
		BuyerID:         3,
		Quantity:        2,
		PaymentMethod:   "points",
		ShippingAddress: "1 Main St",
		BuyerName:       "Ada",
		BuyerPhone:      "555-0101",
		BuyerEmail:      "ada@example.com",
	}
}

func newOrdersRouter(store OrderStore, pub Publisher) *chi.Mux {
	r := chi.NewRouter()
	h := &OrdersHandler{Store: store, Producer: pub, Service: "api-test"}
	h.Register(r)
	return r
}

func TestCreateOrderTierPricing(t *testing.T) {
	tests := []struct {
		name         string
		participants int
		wantUnit     float64
	}{
		{"below first tier", 3, 100},
		{"mid tier", 7, 90},
		{"top tier", 12, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeOrderStore(tieredOffer(tt.participants))
			pub := &fakePublisher{}
			r := newOrdersRouter(store, pub)

			rec, body := doJSON(t, r, http.MethodPost, "/orders", validOrderReq())
			require.Equal(t, http.StatusCreated, rec.Code)

			o := body["order"].(map[string]any)
			require.Equal(t, tt.wantUnit, o["unit_price"])
			require.Equal(t, tt.wantUnit*2, o["total_amount"])
			require.Equal(t, orders.PaymentPending, o["payment_status"])
			require.Equal(t, orders.OrderPending, o["order_status"])
			// Seller comes from the offer, never the request.
			require.Equal(t, float64(5), o["seller_id"])

			require.Len(t, pub.events, 1)
			var env events.Envelope
			require.NoError(t, json.Unmarshal(pub.events[0].value, &env))
			require.Equal(t, events.EventOrderCreated, env.EventType)

			var p events.OrderCreatedPayload
			require.NoError(t, json.Unmarshal(env.Payload, &p))
			require.Equal(t, tt.wantUnit, p.UnitPrice)
			require.Equal(t, tt.wantUnit*2, p.TotalAmount)
		})
	}
}

func TestCreateOrderOfferNotActive(t *testing.T) {
	offer := tieredOffer(3)
	offer.Status = offers.StatusCancelled
	r := newOrdersRouter(newFakeOrderStore(offer), nil)

	rec, body := doJSON(t, r, http.MethodPost, "/orders", validOrderReq())
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, false, body["success"])
}

func TestCreateOrderOfferMissing(t *testing.T) {
	r := newOrdersRouter(newFakeOrderStore(nil), nil)

	rec, _ := doJSON(t, r, http.MethodPost, "/orders", validOrderReq())
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	r := newOrdersRouter(newFakeOrderStore(tieredOffer(3)), nil)

	mutations := []struct {
		name   string
		mutate func(*CreateOrderReq)
		want   string
	}{
		{"zero quantity", func(r *CreateOrderReq) { r.Quantity = 0 }, "quantity must be at least 1"},
		{"missing buyer", func(r *CreateOrderReq) { r.BuyerID = 0 }, "missing required field: buyer_id"},
		{"missing payment method", func(r *CreateOrderReq) { r.PaymentMethod = "" }, "missing required field: payment_method"},
		{"missing shipping address", func(r *CreateOrderReq) { r.ShippingAddress = "" }, "missing required field: shipping_address"},
		{"missing buyer email", func(r *CreateOrderReq) { r.BuyerEmail = "" }, "missing required field: buyer_email"},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrderReq()
			tt.mutate(&req)
			rec, body := doJSON(t, r, http.MethodPost, "/orders", req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, tt.want, body["message"])
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	store := newFakeOrderStore(tieredOffer(3))
	r := newOrdersRouter(store, nil)

	rec, _ := doJSON(t, r, http.MethodPost, "/orders", validOrderReq())
	require.Equal(t, http.StatusCreated, rec.Code)

	paid := orders.PaymentPaid
	shipped := orders.OrderShipped
	rec, body := doJSON(t, r, http.MethodPut, "/orders/1/status",
		UpdateOrderStatusReq{PaymentStatus: &paid, OrderStatus: &shipped})
	require.Equal(t, http.StatusOK, rec.Code)
	o := body["order"].(map[string]any)
	require.Equal(t, orders.PaymentPaid, o["payment_status"])
	require.Equal(t, orders.OrderShipped, o["order_status"])
}

func TestUpdateOrderStatusRejectsUnknown(t *testing.T) {
	store := newFakeOrderStore(tieredOffer(3))
	r := newOrdersRouter(store, nil)

	rec, _ := doJSON(t, r, http.MethodPost, "/orders", validOrderReq())
	require.Equal(t, http.StatusCreated, rec.Code)

	bogus := "settled"
	rec, body := doJSON(t, r, http.MethodPut, "/orders/1/status",
		UpdateOrderStatusReq{PaymentStatus: &bogus})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "unknown payment_status: settled", body["message"])

	rec, _ = doJSON(t, r, http.MethodPut, "/orders/1/status", UpdateOrderStatusReq{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The stored order is untouched.
	require.Equal(t, orders.PaymentPending, store.orders[1].PaymentStatus)
}

func TestListOrdersByBuyer(t *testing.T) {
	store := newFakeOrderStore(tieredOffer(3))
	r := newOrdersRouter(store, nil)

	rec, _ := doJSON(t, r, http.MethodPost, "/orders", validOrderReq())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, r, http.MethodGet, "/orders/buyer/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["orders"], 1)

	rec, body = doJSON(t, r, http.MethodGet, "/orders/buyer/99", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{}, body["orders"])
}
