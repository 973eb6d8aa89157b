package wallet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gpoffer/group-offers/internal/users"
)

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrDetailsNotFound    = errors.New("payment details not found")
)

type Repo struct{ DB *pgxpool.Pool }

const txCols = `id, user_id, transaction_type, amount, description, reference_id,
	payment_method, payment_reference, status, created_at`

func scanTx(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description,
		&t.ReferenceID, &t.PaymentMethod, &t.PaymentReference, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) Balance(ctx context.Context, userID int64) (int, error) {
	var points int
	err := r.DB.QueryRow(ctx, `SELECT points FROM users WHERE id=$1`, userID).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, users.ErrNotFound
	}
	return points, err
}

func (r *Repo) Transactions(ctx context.Context, userID int64) ([]Transaction, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+txCols+` FROM wallet_transactions
		WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Credit appends a ledger row and raises the balance in one transaction.
// Returns the transaction and the balance after it.
func (r *Repo) Credit(ctx context.Context, p CreditParams) (*Transaction, int, error) {
	if p.Type == "" {
		p.Type = TypePurchase
	}
	return r.apply(ctx, p.UserID, p.Amount, Transaction{
		UserID:           p.UserID,
		Type:             p.Type,
		Amount:           p.Amount,
		Description:      p.Description,
		ReferenceID:      p.ReferenceID,
		PaymentMethod:    p.PaymentMethod,
		PaymentReference: p.PaymentReference,
	})
}

// Debit appends a ledger row and lowers the balance in one transaction.
// The user row is locked first, so the balance check cannot race another
// movement; an over-debit fails with ErrInsufficientPoints and changes
// nothing.
func (r *Repo) Debit(ctx context.Context, p DebitParams) (*Transaction, int, error) {
	return r.apply(ctx, p.UserID, -p.Amount, Transaction{
		UserID:      p.UserID,
		Type:        TypeDeduction,
		Amount:      p.Amount,
		Description: p.Description,
		ReferenceID: p.ReferenceID,
	})
}

func (r *Repo) apply(ctx context.Context, userID int64, delta int, t Transaction) (*Transaction, int, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int
	err = tx.QueryRow(ctx, `SELECT points FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, users.ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	if balance+delta < 0 {
		return nil, 0, ErrInsufficientPoints
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO wallet_transactions (user_id, transaction_type, amount, description,
			reference_id, payment_method, payment_reference, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'completed')
		RETURNING `+txCols,
		t.UserID, t.Type, t.Amount, t.Description, t.ReferenceID, t.PaymentMethod, t.PaymentReference)
	out, err := scanTx(row)
	if err != nil {
		return nil, 0, err
	}

	newBalance := balance + delta
	if _, err := tx.Exec(ctx, `UPDATE users SET points=$2, updated_at=NOW() WHERE id=$1`,
		userID, newBalance); err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return out, newBalance, nil
}

const detailCols = `id, user_id, payment_type, paypal_client_id, paypal_client_secret,
	crypto_wallet_address, crypto_type, is_active, created_at, updated_at`

func scanDetails(row pgx.Row) (*PaymentDetails, error) {
	var d PaymentDetails
	err := row.Scan(&d.ID, &d.UserID, &d.PaymentType, &d.PayPalClientID,
		&d.PayPalClientSecret, &d.CryptoWalletAddress, &d.CryptoType,
		&d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) PaymentDetailsByUser(ctx context.Context, userID int64) ([]PaymentDetails, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+detailCols+` FROM payment_details
		WHERE user_id=$1 AND is_active ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentDetails
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// AddPaymentDetails deactivates any existing details of the same type and
// inserts the new row, atomically.
func (r *Repo) AddPaymentDetails(ctx context.Context, d *PaymentDetails) (*PaymentDetails, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE payment_details SET is_active=FALSE, updated_at=NOW()
		WHERE user_id=$1 AND payment_type=$2 AND is_active`, d.UserID, d.PaymentType); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO payment_details (user_id, payment_type, paypal_client_id,
			paypal_client_secret, crypto_wallet_address, crypto_type)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+detailCols,
		d.UserID, d.PaymentType, d.PayPalClientID, d.PayPalClientSecret,
		d.CryptoWalletAddress, d.CryptoType)
	out, err := scanDetails(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpdatePaymentDetails(ctx context.Context, id int64, paypalClientID, paypalClientSecret, cryptoWalletAddress, cryptoType *string) (*PaymentDetails, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE payment_details SET
			paypal_client_id      = COALESCE($2, paypal_client_id),
			paypal_client_secret  = COALESCE($3, paypal_client_secret),
			crypto_wallet_address = COALESCE($4, crypto_wallet_address),
			crypto_type           = COALESCE($5, crypto_type),
			updated_at            = NOW()
		WHERE id=$1 RETURNING `+detailCols,
		id, paypalClientID, paypalClientSecret, cryptoWalletAddress, cryptoType)
	d, err := scanDetails(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDetailsNotFound
	}
	return d, err
}
