package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/gpoffer/group-offers/internal/events"
	kafkax "github.com/gpoffer/group-offers/internal/kafka"
	"github.com/gpoffer/group-offers/internal/redisx"
	"github.com/gpoffer/group-offers/internal/wallet"
)

type WalletStore interface {
	Balance(ctx context.Context, userID int64) (int, error)
	Transactions(ctx context.Context, userID int64) ([]wallet.Transaction, error)
	Credit(ctx context.Context, p wallet.CreditParams) (*wallet.Transaction, int, error)
	Debit(ctx context.Context, p wallet.DebitParams) (*wallet.Transaction, int, error)
	PaymentDetailsByUser(ctx context.Context, userID int64) ([]wallet.PaymentDetails, error)
	AddPaymentDetails(ctx context.Context, d *wallet.PaymentDetails) (*wallet.PaymentDetails, error)
	UpdatePaymentDetails(ctx context.Context, id int64, paypalClientID, paypalClientSecret, cryptoWalletAddress, cryptoType *string) (*wallet.PaymentDetails, error)
}

type WalletHandler struct {
	Store    WalletStore
	Redis    *redis.Client
	Producer Publisher
	Service  string
}

func (h *WalletHandler) Register(r *chi.Mux) {
	r.Get("/wallet/{id}/balance", h.balance)
	r.Get("/wallet/{id}/transactions", h.transactions)
	r.Post("/wallet/purchase-points", h.purchasePoints)
	r.Post("/wallet/deduct-points", h.deductPoints)
	r.Get("/payment-details/{id}", h.paymentDetails)
	r.Post("/payment-details", h.addPaymentDetails)
	r.Put("/payment-details/{id}", h.updatePaymentDetails)
}

func (h *WalletHandler) balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyWalletBalance, userID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil {
			if n, err := strconv.Atoi(s); err == nil {
				respondOK(w, http.StatusOK, "", "balance", n, "user_id", userID)
				return
			}
		}
	}

	balance, err := h.Store.Balance(ctx, userID)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, strconv.Itoa(balance), redisx.TTLBalanceCache).Err()
	}
	respondOK(w, http.StatusOK, "", "balance", balance, "user_id", userID)
}

func (h *WalletHandler) transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Store.Transactions(ctx, userID)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if list == nil {
		list = []wallet.Transaction{}
	}
	respondOK(w, http.StatusOK, "", "transactions", list)
}

type PurchasePointsReq struct {
	UserID           int64  `json:"user_id"`
	Amount           int    `json:"amount"`
	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference"`
}

func (h *WalletHandler) purchasePoints(w http.ResponseWriter, r *http.Request) {
	var req PurchasePointsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	switch {
	case req.UserID <= 0:
		respondErr(w, http.StatusBadRequest, "missing required field: user_id")
		return
	case req.Amount <= 0:
		respondErr(w, http.StatusBadRequest, "amount must be positive")
		return
	case req.PaymentMethod == "":
		respondErr(w, http.StatusBadRequest, "missing required field: payment_method")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	txn, newBalance, err := h.Store.Credit(ctx, wallet.CreditParams{
		UserID:           req.UserID,
		Amount:           req.Amount,
		Type:             wallet.TypePurchase,
		Description:      fmt.Sprintf("Purchased %d points via %s", req.Amount, req.PaymentMethod),
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		respondStoreErr(w, err)
		return
	}

	h.invalidateBalance(ctx, req.UserID)
	h.publishCredited(r, txn, newBalance)
	respondOK(w, http.StatusCreated, "Points purchased successfully",
		"new_balance", newBalance, "transaction", txn)
}

type DeductPointsReq struct {
	UserID      int64  `json:"user_id"`
	Amount      int    `json:"amount"`
	ReferenceID string `json:"reference_id"`
	Description string `json:"description"`
}

func (h *WalletHandler) deductPoints(w http.ResponseWriter, r *http.Request) {
	var req DeductPointsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	switch {
	case req.UserID <= 0:
		respondErr(w, http.StatusBadRequest, "missing required field: user_id")
		return
	case req.Amount <= 0:
		respondErr(w, http.StatusBadRequest, "amount must be positive")
		return
	case req.ReferenceID == "":
		respondErr(w, http.StatusBadRequest, "missing required field: reference_id")
		return
	case req.Description == "":
		respondErr(w, http.StatusBadRequest, "missing required field: description")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	txn, newBalance, err := h.Store.Debit(ctx, wallet.DebitParams{
		UserID:      req.UserID,
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
		Description: req.Description,
	})
	if err != nil {
		respondStoreErr(w, err)
		return
	}

	h.invalidateBalance(ctx, req.UserID)
	respondOK(w, http.StatusOK, "Points deducted successfully",
		"new_balance", newBalance, "transaction", txn)
}

func (h *WalletHandler) paymentDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Store.PaymentDetailsByUser(ctx, userID)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if list == nil {
		list = []wallet.PaymentDetails{}
	}
	respondOK(w, http.StatusOK, "", "payment_details", list)
}

type AddPaymentDetailsReq struct {
	UserID              int64  `json:"user_id"`
	PaymentType         string `json:"payment_type"`
	PayPalClientID      string `json:"paypal_client_id"`
	PayPalClientSecret  string `json:"paypal_client_secret"`
	CryptoWalletAddress string `json:"crypto_wallet_address"`
	CryptoType          string `json:"crypto_type"`
}

func (h *WalletHandler) addPaymentDetails(w http.ResponseWriter, r *http.Request) {
	var req AddPaymentDetailsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID <= 0 {
		respondErr(w, http.StatusBadRequest, "missing required field: user_id")
		return
	}
	if req.PaymentType == "" {
		respondErr(w, http.StatusBadRequest, "missing required field: payment_type")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	d, err := h.Store.AddPaymentDetails(ctx, &wallet.PaymentDetails{
		UserID:              req.UserID,
		PaymentType:         req.PaymentType,
		PayPalClientID:      req.PayPalClientID,
		PayPalClientSecret:  req.PayPalClientSecret,
		CryptoWalletAddress: req.CryptoWalletAddress,
		CryptoType:          req.CryptoType,
	})
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusCreated, "Payment details added successfully", "payment_details", d)
}

type UpdatePaymentDetailsReq struct {
	PayPalClientID      *string `json:"paypal_client_id"`
	PayPalClientSecret  *string `json:"paypal_client_secret"`
	CryptoWalletAddress *string `json:"crypto_wallet_address"`
	CryptoType          *string `json:"crypto_type"`
}

func (h *WalletHandler) updatePaymentDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid payment details id")
		return
	}
	var req UpdatePaymentDetailsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	d, err := h.Store.UpdatePaymentDetails(ctx, id,
		req.PayPalClientID, req.PayPalClientSecret, req.CryptoWalletAddress, req.CryptoType)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "Payment details updated successfully", "payment_details", d)
}

func (h *WalletHandler) invalidateBalance(ctx context.Context, userID int64) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyWalletBalance, userID)).Err()
}

func (h *WalletHandler) publishCredited(r *http.Request, txn *wallet.Transaction, newBalance int) {
	if h.Producer == nil {
		return
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventPointsCredited,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: fmt.Sprintf("wallet_tx:%d", txn.ID),
		Payload: kafkax.MustMarshal(events.PointsCreditedPayload{
			UserID:        txn.UserID,
			Amount:        txn.Amount,
			NewBalance:    newBalance,
			TransactionID: txn.ID,
			Reason:        "points_purchase",
		}),
	}
	h.Producer.Publish(events.PartitionKey(txn.UserID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventPointsCredited)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
