package httpx

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gpoffer/group-offers/internal/users"
)

type fakeUserStore struct {
	byID     map[int64]*users.User
	byName   map[string]*users.User
	password map[string]string
	nextID   int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:     map[int64]*users.User{},
		byName:   map[string]*users.User{},
		password: map[string]string{},
		nextID:   1,
	}
}

func (s *fakeUserStore) Register(_ context.Context, p users.RegisterParams) (*users.User, error) {
	if _, dup := s.byName[p.Username]; dup {
		return nil, users.ErrAlreadyExists
	}
	u := &users.User{
		ID:        s.nextID,
		Username:  p.Username,
		Email:     p.Email,
		UserType:  p.UserType,
		KYCStatus: users.KYCPending,
		IsActive:  true,
	}
	s.nextID++
	s.byID[u.ID] = u
	s.byName[u.Username] = u
	s.password[u.Username] = p.Password
	return u, nil
}

func (s *fakeUserStore) Login(_ context.Context, username, password string) (*users.User, error) {
	u, ok := s.byName[username]
	if !ok || s.password[username] != password {
		return nil, users.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, users.ErrInactive
	}
	return u, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id int64, companyName, phone, address *string) (*users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	if companyName != nil {
		u.CompanyName = *companyName
	}
	if phone != nil {
		u.Phone = *phone
	}
	if address != nil {
		u.Address = *address
	}
	return u, nil
}

func (s *fakeUserStore) SetActive(_ context.Context, id int64, active bool) (*users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	u.IsActive = active
	return u, nil
}

func (s *fakeUserStore) SetKYCStatus(_ context.Context, id int64, status string) (*users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	u.KYCStatus = status
	return u, nil
}

func (s *fakeUserStore) ListAll(context.Context) ([]users.User, error) {
	var out []users.User
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) ListByKYCStatus(_ context.Context, status string) ([]users.User, error) {
	var out []users.User
	for _, u := range s.byID {
		if u.KYCStatus == status {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) AdminStats(context.Context) (*users.Stats, error) {
	return &users.Stats{TotalUsers: len(s.byID)}, nil
}

func newUsersRouter(store UserStore) *chi.Mux {
	r := chi.NewRouter()
	h := &UsersHandler{Store: store}
	h.Register(r)
	return r
}

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	r := newUsersRouter(store)

	rec, body := doJSON(t, r, http.MethodPost, "/register", RegisterReq{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "hunter2",
		UserType: users.TypeBuyer,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "User registered successfully", body["message"])

	u := body["user"].(map[string]any)
	require.Equal(t, "ada", u["username"])
	// Credentials never leave on the wire.
	require.NotContains(t, rec.Body.String(), "hunter2")
	require.NotContains(t, u, "password_hash")

	rec, _ = doJSON(t, r, http.MethodPost, "/register", RegisterReq{
		Username: "ada",
		Email:    "other@example.com",
		Password: "pw",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newUsersRouter(newFakeUserStore())

	rec, body := doJSON(t, r, http.MethodPost, "/register", RegisterReq{Email: "a@b.c", Password: "pw"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "missing required field: username", body["message"])

	rec, _ = doJSON(t, r, http.MethodPost, "/register", RegisterReq{Username: "ada", Email: "a@b.c"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	r := newUsersRouter(store)

	rec, _ := doJSON(t, r, http.MethodPost, "/register", RegisterReq{
		Username: "ada", Email: "ada@example.com", Password: "hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, r, http.MethodPost, "/login", LoginReq{Username: "ada", Password: "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Login successful", body["message"])

	rec, _ = doJSON(t, r, http.MethodPost, "/login", LoginReq{Username: "ada", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	store.byName["ada"].IsActive = false
	rec, _ = doJSON(t, r, http.MethodPost, "/login", LoginReq{Username: "ada", Password: "hunter2"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestKYCFlow(t *testing.T) {
	store := newFakeUserStore()
	r := newUsersRouter(store)

	rec, _ := doJSON(t, r, http.MethodPost, "/register", RegisterReq{
		Username: "ada", Email: "ada@example.com", Password: "pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	store.byID[1].KYCStatus = users.KYCRejected

	rec, _ = doJSON(t, r, http.MethodPost, "/kyc/verify", SubmitKYCReq{UserID: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, users.KYCPending, store.byID[1].KYCStatus)

	rec, body := doJSON(t, r, http.MethodGet, "/kyc/status/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, users.KYCPending, body["kyc_status"])

	rec, _ = doJSON(t, r, http.MethodGet, "/kyc/status/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	store := newFakeUserStore()
	r := newUsersRouter(store)

	rec, _ := doJSON(t, r, http.MethodPost, "/register", RegisterReq{
		Username: "ada", Email: "ada@example.com", Password: "pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	phone := "555-0101"
	rec, _ = doJSON(t, r, http.MethodPut, "/profile/1", UpdateProfileReq{Phone: &phone})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "555-0101", store.byID[1].Phone)
	// Untouched fields stay as they were.
	require.Equal(t, "", store.byID[1].CompanyName)
}
