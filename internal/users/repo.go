package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrAlreadyExists      = errors.New("user with this username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactive           = errors.New("account is deactivated")
)

type Repo struct{ DB *pgxpool.Pool }

const userCols = `id, username, email, password_hash, user_type, kyc_status, kyc_verified_at,
	points, company_name, phone, address, rating, is_active, created_at, updated_at, last_login`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.UserType,
		&u.KYCStatus, &u.KYCVerifiedAt, &u.Points, &u.CompanyName, &u.Phone,
		&u.Address, &u.Rating, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Register(ctx context.Context, p RegisterParams) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	userType := p.UserType
	if userType == "" {
		userType = TypeBuyer
	}
	row := r.DB.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, user_type, company_name, phone, address)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+userCols,
		p.Username, p.Email, string(hash), userType, p.CompanyName, p.Phone, p.Address)
	u, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, ErrAlreadyExists
	}
	return u, err
}

func (r *Repo) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username=$1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactive
	}
	_, _ = r.DB.Exec(ctx, `UPDATE users SET last_login=NOW() WHERE id=$1`, u.ID)
	return u, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// UpdateProfile writes the caller-editable contact fields only.
func (r *Repo) UpdateProfile(ctx context.Context, id int64, companyName, phone, address *string) (*User, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE users SET
			company_name = COALESCE($2, company_name),
			phone        = COALESCE($3, phone),
			address      = COALESCE($4, address),
			updated_at   = NOW()
		WHERE id=$1 RETURNING `+userCols, id, companyName, phone, address)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *Repo) SetActive(ctx context.Context, id int64, active bool) (*User, error) {
	row := r.DB.QueryRow(ctx, `UPDATE users SET is_active=$2, updated_at=NOW()
		WHERE id=$1 RETURNING `+userCols, id, active)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// SetKYCStatus records the moderation outcome; verification stamps the
// timestamp, any other status clears it.
func (r *Repo) SetKYCStatus(ctx context.Context, id int64, status string) (*User, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE users SET
			kyc_status      = $2,
			kyc_verified_at = CASE WHEN $2 = 'verified' THEN NOW() ELSE NULL END,
			updated_at      = NOW()
		WHERE id=$1 RETURNING `+userCols, id, status)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *Repo) ListAll(ctx context.Context) ([]User, error) {
	return r.list(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
}

func (r *Repo) ListByKYCStatus(ctx context.Context, status string) ([]User, error) {
	return r.list(ctx, `SELECT `+userCols+` FROM users WHERE kyc_status=$1 ORDER BY created_at DESC`, status)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// AdminStats aggregates the platform counters shown on the moderation
// dashboard.
func (r *Repo) AdminStats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.DB.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM offers),
			(SELECT COUNT(*) FROM offers WHERE status='active'),
			(SELECT COUNT(*) FROM offers WHERE status='pending'),
			(SELECT COUNT(*) FROM users WHERE kyc_status='pending')`).
		Scan(&s.TotalUsers, &s.ActiveUsers, &s.TotalOffers, &s.ActiveOffers,
			&s.PendingOffers, &s.PendingKYC)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
