package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/gpoffer/group-offers/internal/events"
	kafkax "github.com/gpoffer/group-offers/internal/kafka"
	"github.com/gpoffer/group-offers/internal/offers"
	"github.com/gpoffer/group-offers/internal/redisx"
)

type OfferStore interface {
	Create(ctx context.Context, o *offers.Offer) (*offers.Offer, error)
	GetByID(ctx context.Context, id int64) (*offers.Offer, error)
	ListActive(ctx context.Context) ([]offers.Offer, error)
	ListAll(ctx context.Context) ([]offers.Offer, error)
	SetStatus(ctx context.Context, id int64, status offers.Status) (*offers.Offer, error)
	Join(ctx context.Context, offerID, userID int64, amount *float64) (*offers.Commitment, int, error)
	Participants(ctx context.Context, offerID int64) ([]offers.Commitment, error)
}

type OffersHandler struct {
	Store    OfferStore
	Redis    *redis.Client
	Producer Publisher
	Service  string
}

func (h *OffersHandler) Register(r *chi.Mux) {
	r.Get("/offers", h.listActive)
	r.Get("/offers/{id}", h.getOffer)
	r.Post("/offers/create", h.createOffer)
	r.Post("/offers/join/{id}", h.joinOffer)
	r.Get("/offers/{id}/participants", h.participants)
	r.Get("/admin/offers", h.adminListOffers)
	r.Post("/admin/offers/{id}/approve", h.adminApprove)
	r.Post("/admin/offers/{id}/cancel", h.adminCancel)
}

func (h *OffersHandler) listActive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, redisx.KeyActiveOffers).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "offers": json.RawMessage(s)})
			return
		}
	}

	list, err := h.Store.ListActive(ctx)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if list == nil {
		list = []offers.Offer{}
	}
	if h.Redis != nil {
		if b, err := json.Marshal(list); err == nil {
			_ = h.Redis.Set(ctx, redisx.KeyActiveOffers, b, redisx.TTLOfferCache).Err()
		}
	}
	respondOK(w, http.StatusOK, "", "offers", list)
}

func (h *OffersHandler) getOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOffer, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "offer": json.RawMessage(s)})
			return
		}
	}

	o, err := h.Store.GetByID(ctx, id)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(o); err == nil {
			_ = h.Redis.Set(ctx, key, b, redisx.TTLOfferCache).Err()
		}
	}
	respondOK(w, http.StatusOK, "", "offer", o)
}

type CreateOfferReq struct {
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	ProductService   string                `json:"product_service"`
	TargetRegion     string                `json:"target_region"`
	BasePrice        *float64              `json:"base_price"`
	DiscountStrategy []offers.DiscountTier `json:"discount_strategy"`
	Deadline         *time.Time            `json:"deadline"`
	MinimumJoiners   int                   `json:"minimum_joiners"`
	TermsConditions  string                `json:"terms_conditions"`
	Visibility       string                `json:"visibility"`
	PointsRequired   int                   `json:"points_required"`
	SupplierID       int64                 `json:"supplier_id"`
	Images           []string              `json:"images"`
	Category         string                `json:"category"`
	Tags             []string              `json:"tags"`
	Featured         bool                  `json:"featured"`
	PaymentMethods   []string              `json:"payment_methods"`
}

func (req *CreateOfferReq) validate() string {
	switch {
	case req.Title == "":
		return "missing required field: title"
	case req.ProductService == "":
		return "missing required field: product_service"
	case req.TargetRegion == "":
		return "missing required field: target_region"
	case req.BasePrice == nil:
		return "missing required field: base_price"
	case *req.BasePrice < 0:
		return "base_price must not be negative"
	case req.Deadline == nil:
		return "missing required field: deadline"
	case req.SupplierID <= 0:
		return "missing required field: supplier_id"
	}
	return ""
}

func (h *OffersHandler) createOffer(w http.ResponseWriter, r *http.Request) {
	var req CreateOfferReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = offers.VisibilityPublic
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.Create(ctx, &offers.Offer{
		Title:            req.Title,
		Description:      req.Description,
		ProductService:   req.ProductService,
		TargetRegion:     req.TargetRegion,
		BasePrice:        *req.BasePrice,
		DiscountStrategy: req.DiscountStrategy,
		Deadline:         *req.Deadline,
		MinimumJoiners:   req.MinimumJoiners,
		TermsConditions:  req.TermsConditions,
		Visibility:       visibility,
		PointsRequired:   req.PointsRequired,
		SupplierID:       req.SupplierID,
		Images:           req.Images,
		Category:         req.Category,
		Tags:             req.Tags,
		Featured:         req.Featured,
		PaymentMethods:   req.PaymentMethods,
	})
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusCreated, "Offer created successfully", "offer", o)
}

type JoinOfferReq struct {
	UserID           int64    `json:"user_id"`
	CommitmentAmount *float64 `json:"commitment_amount"`
}

func (h *OffersHandler) joinOffer(w http.ResponseWriter, r *http.Request) {
	offerID, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	var req JoinOfferReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID <= 0 {
		respondErr(w, http.StatusBadRequest, "missing required field: user_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, participants, err := h.Store.Join(ctx, offerID, req.UserID, req.CommitmentAmount)
	if err != nil {
		respondStoreErr(w, err)
		return
	}

	h.invalidate(ctx, offerID)
	h.publishJoined(r, c, participants)
	respondOK(w, http.StatusCreated, "Successfully joined the offer", "participation", c)
}

func (h *OffersHandler) participants(w http.ResponseWriter, r *http.Request) {
	offerID, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Store.Participants(ctx, offerID)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if list == nil {
		list = []offers.Commitment{}
	}
	respondOK(w, http.StatusOK, "", "participants", list)
}

func (h *OffersHandler) adminListOffers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Store.ListAll(ctx)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if list == nil {
		list = []offers.Offer{}
	}
	respondOK(w, http.StatusOK, "", "offers", list)
}

func (h *OffersHandler) adminApprove(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, offers.StatusActive, "Offer approved successfully")
}

func (h *OffersHandler) adminCancel(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, offers.StatusCancelled, "Offer cancelled successfully")
}

func (h *OffersHandler) moderate(w http.ResponseWriter, r *http.Request, status offers.Status, message string) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.SetStatus(ctx, id, status)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	h.invalidate(ctx, id)
	respondOK(w, http.StatusOK, message, "offer", o)
}

func (h *OffersHandler) invalidate(ctx context.Context, offerID int64) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOffer, offerID), redisx.KeyActiveOffers).Err()
}

func (h *OffersHandler) publishJoined(r *http.Request, c *offers.Commitment, participants int) {
	if h.Producer == nil {
		return
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventOfferJoined,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: fmt.Sprintf("offer:%d", c.OfferID),
		Payload: kafkax.MustMarshal(events.OfferJoinedPayload{
			OfferID:          c.OfferID,
			UserID:           c.UserID,
			CommitmentID:     c.ID,
			CommitmentAmount: c.Amount,
			Participants:     participants,
		}),
	}
	h.Producer.Publish(events.PartitionKey(c.OfferID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOfferJoined)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
