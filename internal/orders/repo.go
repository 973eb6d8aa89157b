package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gpoffer/group-offers/internal/offers"
)

var ErrNotFound = errors.New("order not found")

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, offer_id, buyer_id, seller_id, quantity, unit_price, total_amount,
	payment_method, payment_status, order_status, shipping_address, buyer_name,
	buyer_phone, buyer_email, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OfferID, &o.BuyerID, &o.SellerID, &o.Quantity,
		&o.UnitPrice, &o.TotalAmount, &o.PaymentMethod, &o.PaymentStatus,
		&o.OrderStatus, &o.ShippingAddress, &o.BuyerName, &o.BuyerPhone,
		&o.BuyerEmail, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create prices and persists an order against an active offer in one
// transaction. The unit price comes from the offer's participant counter
// as read here; it is frozen on the row and later schedule or counter
// changes never touch existing orders. The seller is the offer's supplier
// at creation time, copied, never re-derived.
func (r *Repo) Create(ctx context.Context, p CreateParams) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		basePrice    float64
		strategy     []offers.DiscountTier
		participants int
		supplierID   int64
		status       string
		deadline     time.Time
	)
	err = tx.QueryRow(ctx, `
		SELECT base_price, discount_strategy, current_participants, supplier_id, status, deadline
		FROM offers WHERE id=$1`, p.OfferID).
		Scan(&basePrice, &strategy, &participants, &supplierID, &status, &deadline)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, offers.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if offers.Status(status) != offers.StatusActive || !time.Now().Before(deadline) {
		return nil, offers.ErrNotActive
	}

	unitPrice := offers.ResolveUnitPrice(basePrice, strategy, participants)
	total := unitPrice * float64(p.Quantity)

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (offer_id, buyer_id, seller_id, quantity, unit_price, total_amount,
			payment_method, payment_status, order_status, shipping_address, buyer_name,
			buyer_phone, buyer_email, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'pending','pending',$8,$9,$10,$11,$12)
		RETURNING `+orderCols,
		p.OfferID, p.BuyerID, supplierID, p.Quantity, unitPrice, total,
		p.PaymentMethod, p.ShippingAddress, p.BuyerName, p.BuyerPhone, p.BuyerEmail, p.Notes)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *Repo) ListByBuyer(ctx context.Context, buyerID int64) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE buyer_id=$1 ORDER BY created_at DESC`, buyerID)
}

func (r *Repo) ListBySeller(ctx context.Context, sellerID int64) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE seller_id=$1 ORDER BY created_at DESC`, sellerID)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// UpdateStatus sets payment and/or fulfillment status directly. Nil
// leaves a field untouched. Callers validate the vocabulary beforehand.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, paymentStatus, orderStatus *string) (*Order, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE orders SET
			payment_status = COALESCE($2, payment_status),
			order_status   = COALESCE($3, order_status),
			updated_at     = NOW()
		WHERE id=$1 RETURNING `+orderCols, id, paymentStatus, orderStatus)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}
