package orders

import "time"

type Order struct {
	ID              int64     `json:"id"`
	OfferID         int64     `json:"offer_id"`
	BuyerID         int64     `json:"buyer_id"`
	SellerID        int64     `json:"seller_id"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unit_price"`
	TotalAmount     float64   `json:"total_amount"`
	PaymentMethod   string    `json:"payment_method"`
	PaymentStatus   string    `json:"payment_status"`
	OrderStatus     string    `json:"order_status"`
	ShippingAddress string    `json:"shipping_address"`
	BuyerName       string    `json:"buyer_name"`
	BuyerPhone      string    `json:"buyer_phone"`
	BuyerEmail      string    `json:"buyer_email"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateParams struct {
	OfferID         int64
	BuyerID         int64
	Quantity        int
	PaymentMethod   string
	ShippingAddress string
	BuyerName       string
	BuyerPhone      string
	BuyerEmail      string
	Notes           string
}
