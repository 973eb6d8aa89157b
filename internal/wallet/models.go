package wallet

import "time"

const (
	TypePurchase  = "purchase"
	TypeDeduction = "deduction"
	TypeRefund    = "refund"
)

const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxFailed    = "failed"
)

// Transaction is one append-only row in the points ledger. The user's
// denormalized balance is mutated in the same database transaction that
// inserts the row.
type Transaction struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Type             string    `json:"transaction_type"`
	Amount           int       `json:"amount"`
	Description      string    `json:"description"`
	ReferenceID      string    `json:"reference_id"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentReference string    `json:"payment_reference"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type CreditParams struct {
	UserID           int64
	Amount           int
	Type             string // purchase or refund
	Description      string
	ReferenceID      string
	PaymentMethod    string
	PaymentReference string
}

type DebitParams struct {
	UserID      int64
	Amount      int
	Description string
	ReferenceID string
}

// PaymentDetails holds opaque provider identifiers; no gateway is called
// from here.
type PaymentDetails struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	PaymentType         string    `json:"payment_type"`
	PayPalClientID      string    `json:"paypal_client_id"`
	PayPalClientSecret  string    `json:"-"`
	CryptoWalletAddress string    `json:"crypto_wallet_address"`
	CryptoType          string    `json:"crypto_type"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
