package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gpoffer/group-offers/internal/complaints"
)

type ComplaintStore interface {
	Create(ctx context.Context, c *complaints.Complaint) (*complaints.Complaint, error)
	GetByID(ctx context.Context, id int64) (*complaints.Complaint, error)
	ListByComplainant(ctx context.Context, userID int64) ([]complaints.Complaint, error)
	ListAgainst(ctx context.Context, userID int64) ([]complaints.Complaint, error)
	ListAll(ctx context.Context) ([]complaints.Complaint, error)
	Resolve(ctx context.Context, id int64, adminResponse, resolution string) (*complaints.Complaint, error)
}

type ComplaintsHandler struct {
	Store ComplaintStore
}

func (h *ComplaintsHandler) Register(r *chi.Mux) {
	r.Post("/complaints", h.create)
	r.Get("/complaints/{id}", h.get)
	r.Get("/complaints/user/{id}", h.byComplainant)
	r.Get("/complaints/against/{id}", h.againstUser)
	r.Get("/admin/complaints", h.listAll)
	r.Put("/admin/complaints/{id}/resolve", h.resolve)
}

type CreateComplaintReq struct {
	OrderID       *int64 `json:"order_id"`
	ComplainantID int64  `json:"complainant_id"`
	AgainstUserID *int64 `json:"against_user_id"`
	ComplaintType string `json:"complaint_type"`
	Subject       string `json:"subject"`
	Description   string `json:"description"`
}

func (h *ComplaintsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateComplaintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	switch {
	case req.ComplainantID <= 0:
		respondErr(w, http.StatusBadRequest, "missing required field: complainant_id")
		return
	case req.ComplaintType == "":
		respondErr(w, http.StatusBadRequest, "missing required field: complaint_type")
		return
	case req.Subject == "":
		respondErr(w, http.StatusBadRequest, "missing required field: subject")
		return
	case req.Description == "":
		respondErr(w, http.StatusBadRequest, "missing required field: description")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Store.Create(ctx, &complaints.Complaint{
		OrderID:       req.OrderID,
		ComplainantID: req.ComplainantID,
		AgainstUserID: req.AgainstUserID,
		Type:          req.ComplaintType,
		Subject:       req.Subject,
		Description:   req.Description,
	})
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusCreated, "Complaint created successfully", "complaint", c)
}

func (h *ComplaintsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid complaint id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Store.GetByID(ctx, id)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "", "complaint", c)
}

func (h *ComplaintsHandler) byComplainant(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, h.Store.ListByComplainant)
}

func (h *ComplaintsHandler) againstUser(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, h.Store.ListAgainst)
}

func (h *ComplaintsHandler) listFor(w http.ResponseWriter, r *http.Request, list func(context.Context, int64) ([]complaints.Complaint, error)) {
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
		out = []complaints.Complaint{}
	}
	respondOK(w, http.StatusOK, "", "complaints", out)
}

func (h *ComplaintsHandler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Store.ListAll(ctx)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	if out == nil {
		out = []complaints.Complaint{}
	}
	respondOK(w, http.StatusOK, "", "complaints", out)
}

type ResolveComplaintReq struct {
	AdminResponse string `json:"admin_response"`
	Resolution    string `json:"resolution"`
}

func (h *ComplaintsHandler) resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid complaint id")
		return
	}
	var req ResolveComplaintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Store.Resolve(ctx, id, req.AdminResponse, req.Resolution)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "Complaint resolved successfully", "complaint", c)
}
