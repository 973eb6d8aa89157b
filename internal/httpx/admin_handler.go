package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gpoffer/group-offers/internal/users"
)

type SettingsStore interface {
	Get(ctx context.Context) (map[string]any, error)
	Update(ctx context.Context, values map[string]any) (map[string]any, error)
}

// AdminHandler exposes the moderation surface for users, KYC, platform
// stats and settings. Offer moderation lives on OffersHandler.
type AdminHandler struct {
	Users    UserStore
	Settings SettingsStore
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Get("/admin/users", h.listUsers)
	r.Post("/admin/users/{id}/activate", h.activateUser)
	r.Post("/admin/users/{id}/deactivate", h.deactivateUser)
	r.Get("/admin/stats", h.stats)
	r.Get("/admin/settings", h.getSettings)
	r.Put("/admin/settings", h.updateSettings)
	r.Post("/admin/kyc/approve/{id}", h.approveKYC)
	r.Post("/admin/kyc/reject/{id}", h.rejectKYC)
	r.Get("/admin/kyc/pending", h.pendingKYC)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Users.ListAll(ctx)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if list == nil {
		list = []users.User{}
	}
	respondOK(w, http.StatusOK, "", "users", list)
}

func (h *AdminHandler) activateUser(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "User activated successfully")
}

func (h *AdminHandler) deactivateUser(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "User deactivated successfully")
}

func (h *AdminHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.SetActive(ctx, id, active)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, message, "user", u)
}

func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Users.AdminStats(ctx)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "", "stats", s)
}

func (h *AdminHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Settings.Get(ctx)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "", "settings", s)
}

func (h *AdminHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(values) == 0 {
		respondErr(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Settings.Update(ctx, values)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "Settings updated successfully", "settings", s)
}

func (h *AdminHandler) approveKYC(w http.ResponseWriter, r *http.Request) {
	h.setKYC(w, r, users.KYCVerified, "KYC approved successfully")
}

func (h *AdminHandler) rejectKYC(w http.ResponseWriter, r *http.Request) {
	h.setKYC(w, r, users.KYCRejected, "KYC rejected")
}

func (h *AdminHandler) setKYC(w http.ResponseWriter, r *http.Request, status, message string) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.SetKYCStatus(ctx, id, status)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, message, "user", u)
}

func (h *AdminHandler) pendingKYC(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Users.ListByKYCStatus(ctx, users.KYCPending)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if list == nil {
		list = []users.User{}
	}
	respondOK(w, http.StatusOK, "", "users", list)
}
