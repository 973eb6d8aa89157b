package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gpoffer/group-offers/internal/users"
)

type UserStore interface {
	Register(ctx context.Context, p users.RegisterParams) (*users.User, error)
	Login(ctx context.Context, username, password string) (*users.User, error)
	GetByID(ctx context.Context, id int64) (*users.User, error)
	UpdateProfile(ctx context.Context, id int64, companyName, phone, address *string) (*users.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*users.User, error)
	SetKYCStatus(ctx context.Context, id int64, status string) (*users.User, error)
	ListAll(ctx context.Context) ([]users.User, error)
	ListByKYCStatus(ctx context.Context, status string) ([]users.User, error)
	AdminStats(ctx context.Context) (*users.Stats, error)
}

type UsersHandler struct {
	Store UserStore
}

func (h *UsersHandler) Register(r *chi.Mux) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Get("/profile/{id}", h.getProfile)
	r.Put("/profile/{id}", h.updateProfile)
	r.Post("/kyc/verify", h.submitKYC)
	r.Get("/kyc/status/{id}", h.kycStatus)
}

type RegisterReq struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	UserType    string `json:"user_type"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

func (h *UsersHandler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	switch {
	case req.Username == "":
		respondErr(w, http.StatusBadRequest, "missing required field: username")
		return
	case req.Email == "":
		respondErr(w, http.StatusBadRequest, "missing required field: email")
		return
	case req.Password == "":
		respondErr(w, http.StatusBadRequest, "missing required field: password")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.Register(ctx, users.RegisterParams{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		UserType:    req.UserType,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusCreated, "User registered successfully", "user", u)
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondErr(w, http.StatusBadRequest, "username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "Login successful", "user", u)
}

func (h *UsersHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Store.GetByID(ctx, id)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "", "user", u)
}

type UpdateProfileReq struct {
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

func (h *UsersHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req UpdateProfileReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.UpdateProfile(ctx, id, req.CompanyName, req.Phone, req.Address)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "Profile updated successfully", "user", u)
}

type SubmitKYCReq struct {
	UserID int64 `json:"user_id"`
}

func (h *UsersHandler) submitKYC(w http.ResponseWriter, r *http.Request) {
	var req SubmitKYCReq
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

	u, err := h.Store.SetKYCStatus(ctx, req.UserID, users.KYCPending)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "KYC verification request submitted successfully", "user", u)
}

func (h *UsersHandler) kycStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Store.GetByID(ctx, id)
	if err != nil {
		respondStoreErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, "",
		"kyc_status", u.KYCStatus, "kyc_verified_at", u.KYCVerifiedAt)
}
