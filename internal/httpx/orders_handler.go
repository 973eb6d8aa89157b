package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/gpoffer/group-offers/internal/events"
	kafkax "github.com/gpoffer/group-offers/internal/kafka"
	"github.com/gpoffer/group-offers/internal/orders"
)

type OrderStore interface {
	Create(ctx context.Context, p orders.CreateParams) (*orders.Order, error)
	GetByID(ctx context.Context, id int64) (*orders.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]orders.Order, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id int64, paymentStatus, orderStatus *string) (*orders.Order, error)
}

type OrdersHandler struct {
	Store    OrderStore
	Producer Publisher
	Service  string
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/buyer/{id}", h.buyerOrders)
	r.Get("/orders/seller/{id}", h.sellerOrders)
	r.Put("/orders/{id}/status", h.updateStatus)
}

type CreateOrderReq struct {
	OfferID         int64  `json:"offer_id"`
	BuyerID         int64  `json:"buyer_id"`
	Quantity        int    `json:"quantity"`
	PaymentMethod   string `json:"payment_method"`
	ShippingAddress string `json:"shipping_address"`
	BuyerName       string `json:"buyer_name"`
	BuyerPhone      string `json:"buyer_phone"`
	BuyerEmail      string `json:"buyer_email"`
	Notes           string `json:"notes"`
}

func (req *CreateOrderReq) validate() string {
	switch {
	case req.OfferID <= 0:
		return "missing required field: offer_id"
	case req.BuyerID <= 0:
		return "missing required field: buyer_id"
	case req.Quantity < 1:
		return "quantity must be at least 1"
	case req.PaymentMethod == "":
		return "missing required field: payment_method"
	case req.ShippingAddress == "":
		return "missing required field: shipping_address"
	case req.BuyerName == "":
		return "missing required field: buyer_name"
	case req.BuyerPhone == "":
		return "missing required field: buyer_phone"
	case req.BuyerEmail == "":
		return "missing required field: buyer_email"
	}
	return ""
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.Create(ctx, orders.CreateParams{
		OfferID:         req.OfferID,
		BuyerID:         req.BuyerID,
		Quantity:        req.Quantity,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		BuyerName:       req.BuyerName,
		BuyerPhone:      req.BuyerPhone,
		BuyerEmail:      req.BuyerEmail,
		Notes:           req.Notes,
	})
	if err != nil {
		respondStoreErr(w, err)
		return
	}

	h.publishCreated(r, o)
	respondOK(w, http.StatusCreated, "Order created successfully", "order", o)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid order id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Store.GetByID(ctx, id)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "", "order", o)
}

func (h *OrdersHandler) buyerOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, h.Store.ListByBuyer)
}

func (h *OrdersHandler) sellerOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, h.Store.ListBySeller)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request, list func(context.Context, int64) ([]orders.Order, error)) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := list(ctx, id)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	respondOK(w, http.StatusOK, "", "orders", out)
}

type UpdateOrderStatusReq struct {
	PaymentStatus *string `json:"payment_status"`
	OrderStatus   *string `json:"order_status"`
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req UpdateOrderStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.PaymentStatus == nil && req.OrderStatus == nil {
		respondErr(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.PaymentStatus != nil && !orders.ValidPaymentStatus(*req.PaymentStatus) {
		respondErr(w, http.StatusBadRequest, "unknown payment_status: "+*req.PaymentStatus)
		return
	}
	if req.OrderStatus != nil && !orders.ValidOrderStatus(*req.OrderStatus) {
		respondErr(w, http.StatusBadRequest, "unknown order_status: "+*req.OrderStatus)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.UpdateStatus(ctx, id, req.PaymentStatus, req.OrderStatus)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "Order status updated successfully", "order", o)
}

func (h *OrdersHandler) publishCreated(r *http.Request, o *orders.Order) {
	if h.Producer == nil {
		return
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: fmt.Sprintf("order:%d", o.ID),
		Payload: kafkax.MustMarshal(events.OrderCreatedPayload{
			OrderID:     o.ID,
			OfferID:     o.OfferID,
			BuyerID:     o.BuyerID,
			SellerID:    o.SellerID,
			Quantity:    o.Quantity,
			UnitPrice:   o.UnitPrice,
			TotalAmount: o.TotalAmount,
		}),
	}
	h.Producer.Publish(events.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
