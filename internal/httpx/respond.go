package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/gpoffer/group-offers/internal/complaints"
	"github.com/gpoffer/group-offers/internal/offers"
	"github.com/gpoffer/group-offers/internal/orders"
	"github.com/gpoffer/group-offers/internal/users"
	"github.com/gpoffer/group-offers/internal/wallet"
)

// Publisher is what the handlers need from the kafka producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Every operation answers with a success flag and a message; successful
// ones carry the affected entity under its own key.
func respondOK(w http.ResponseWriter, code int, message string, kv ...any) {
	body := map[string]any{"success": true, "message": message}
	for i := 0; i+1 < len(kv); i += 2 {
		body[kv[i].(string)] = kv[i+1]
	}
	writeJSON(w, code, body)
}

func respondErr(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"success": false, "message": message})
}

func respondStoreErr(w http.ResponseWriter, err error) {
	respondErr(w, errStatus(err), err.Error())
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, offers.ErrNotFound),
		errors.Is(err, orders.ErrNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, complaints.ErrNotFound),
		errors.Is(err, wallet.ErrDetailsNotFound):
		return http.StatusNotFound
	case errors.Is(err, offers.ErrAlreadyJoined),
		errors.Is(err, users.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, offers.ErrNotActive),
		errors.Is(err, wallet.ErrInsufficientPoints):
		return http.StatusUnprocessableEntity
	case errors.Is(err, users.ErrInvalidCredentials),
		errors.Is(err, users.ErrInactive):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
