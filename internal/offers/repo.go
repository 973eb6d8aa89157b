package offers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("offer not found")
	ErrNotActive     = errors.New("offer is not active")
	ErrAlreadyJoined = errors.New("user already joined this offer")
)

type Repo struct{ DB *pgxpool.Pool }

const offerCols = `id, title, description, product_service, target_region, base_price,
	discount_strategy, deadline, minimum_joiners, terms_conditions, visibility,
	points_required, supplier_id, status, current_participants, images, category,
	tags, featured, payment_methods, created_at, updated_at`

func scanOffer(row pgx.Row) (*Offer, error) {
	var o Offer
	err := row.Scan(&o.ID, &o.Title, &o.Description, &o.ProductService, &o.TargetRegion,
		&o.BasePrice, &o.DiscountStrategy, &o.Deadline, &o.MinimumJoiners,
		&o.TermsConditions, &o.Visibility, &o.PointsRequired, &o.SupplierID,
		&o.Status, &o.CurrentParticipants, &o.Images, &o.Category, &o.Tags,
		&o.Featured, &o.PaymentMethods, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = o.EffectiveStatus(time.Now())
	return &o, nil
}

func (r *Repo) Create(ctx context.Context, o *Offer) (*Offer, error) {
	o.DiscountStrategy = NormalizeStrategy(o.DiscountStrategy)
	row := r.DB.QueryRow(ctx, `
		INSERT INTO offers (title, description, product_service, target_region, base_price,
			discount_strategy, deadline, minimum_joiners, terms_conditions, visibility,
			points_required, supplier_id, status, images, category, tags, featured, payment_methods)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,'pending',$13,$14,$15,$16,$17)
		RETURNING `+offerCols,
		o.Title, o.Description, o.ProductService, o.TargetRegion, o.BasePrice,
		o.DiscountStrategy, o.Deadline, o.MinimumJoiners, o.TermsConditions,
		o.Visibility, o.PointsRequired, o.SupplierID, o.Images, o.Category,
		o.Tags, o.Featured, o.PaymentMethods)
	return scanOffer(row)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Offer, error) {
	o, err := scanOffer(r.DB.QueryRow(ctx, `SELECT `+offerCols+` FROM offers WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

// ListActive returns publicly visible offers that can still be joined.
func (r *Repo) ListActive(ctx context.Context) ([]Offer, error) {
	return r.list(ctx, `SELECT `+offerCols+` FROM offers
		WHERE status='active' AND visibility='public' AND deadline > NOW()
		ORDER BY featured DESC, created_at DESC`)
}

// ListAll returns every offer regardless of status (moderation view).
func (r *Repo) ListAll(ctx context.Context) ([]Offer, error) {
	return r.list(ctx, `SELECT `+offerCols+` FROM offers ORDER BY created_at DESC`)
}

func (r *Repo) list(ctx context.Context, query string) ([]Offer, error) {
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// SetStatus is the moderation transition (approve, cancel). It writes the
// stored status column directly; nothing else ever does.
func (r *Repo) SetStatus(ctx context.Context, id int64, status Status) (*Offer, error) {
	row := r.DB.QueryRow(ctx, `UPDATE offers SET status=$2, updated_at=NOW()
		WHERE id=$1 RETURNING `+offerCols, id, string(status))
	o, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

// Join records a commitment and bumps the participant counter in one
// transaction. The offer row is locked for the duration, and duplicate
// commitments are rejected by the partial unique index on
// (offer_id, user_id) WHERE status='committed' rather than by a
// check-then-act read. Returns the commitment and the counter after the
// join.
func (r *Repo) Join(ctx context.Context, offerID, userID int64, amount *float64) (*Commitment, int, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		basePrice float64
		status    string
		deadline  time.Time
	)
	err = tx.QueryRow(ctx, `SELECT base_price, status, deadline FROM offers WHERE id=$1 FOR UPDATE`,
		offerID).Scan(&basePrice, &status, &deadline)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	if Status(status) != StatusActive || !time.Now().Before(deadline) {
		return nil, 0, ErrNotActive
	}

	c := Commitment{OfferID: offerID, UserID: userID, Amount: basePrice, Status: CommitmentCommitted}
	if amount != nil {
		c.Amount = *amount
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO commitments (offer_id, user_id, commitment_amount, status)
		VALUES ($1, $2, $3, 'committed')
		ON CONFLICT (offer_id, user_id) WHERE status='committed' DO NOTHING
		RETURNING id, joined_at`,
		offerID, userID, c.Amount).Scan(&c.ID, &c.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, ErrAlreadyJoined
	}
	if err != nil {
		return nil, 0, err
	}

	var participants int
	err = tx.QueryRow(ctx, `UPDATE offers
		SET current_participants = current_participants + 1, updated_at = NOW()
		WHERE id=$1 RETURNING current_participants`, offerID).Scan(&participants)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return &c, participants, nil
}

// Participants lists the committed commitments for an offer.
func (r *Repo) Participants(ctx context.Context, offerID int64) ([]Commitment, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, offer_id, user_id, commitment_amount, status, joined_at
		FROM commitments WHERE offer_id=$1 AND status='committed'
		ORDER BY joined_at`, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Commitment
	for rows.Next() {
		var c Commitment
		if err := rows.Scan(&c.ID, &c.OfferID, &c.UserID, &c.Amount, &c.Status, &c.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
