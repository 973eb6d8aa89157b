package complaints

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("complaint not found")

type Repo struct{ DB *pgxpool.Pool }

const cols = `id, order_id, complainant_id, against_user_id, complaint_type, subject,
	description, status, admin_response, resolution, created_at, updated_at, resolved_at`

func scan(row pgx.Row) (*Complaint, error) {
	var c Complaint
	err := row.Scan(&c.ID, &c.OrderID, &c.ComplainantID, &c.AgainstUserID, &c.Type,
		&c.Subject, &c.Description, &c.Status, &c.AdminResponse, &c.Resolution,
		&c.CreatedAt, &c.UpdatedAt, &c.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Create(ctx context.Context, c *Complaint) (*Complaint, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO complaints (order_id, complainant_id, against_user_id, complaint_type,
			subject, description)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+cols,
		c.OrderID, c.ComplainantID, c.AgainstUserID, c.Type, c.Subject, c.Description)
	return scan(row)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Complaint, error) {
	c, err := scan(r.DB.QueryRow(ctx, `SELECT `+cols+` FROM complaints WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *Repo) ListByComplainant(ctx context.Context, userID int64) ([]Complaint, error) {
	return r.list(ctx, `SELECT `+cols+` FROM complaints WHERE complainant_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *Repo) ListAgainst(ctx context.Context, userID int64) ([]Complaint, error) {
	return r.list(ctx, `SELECT `+cols+` FROM complaints WHERE against_user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *Repo) ListAll(ctx context.Context) ([]Complaint, error) {
	return r.list(ctx, `SELECT `+cols+` FROM complaints ORDER BY created_at DESC`)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Complaint, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Complaint
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *Repo) Resolve(ctx context.Context, id int64, adminResponse, resolution string) (*Complaint, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE complaints SET status='resolved', admin_response=$2, resolution=$3,
			resolved_at=NOW(), updated_at=NOW()
		WHERE id=$1 RETURNING `+cols, id, adminResponse, resolution)
	c, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}
