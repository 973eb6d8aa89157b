package orders

// Payment and fulfillment status advance independently; callers set them
// directly and no transition order is enforced. Only the vocabulary is
// checked so a typo cannot end up in the column.

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

var paymentStatuses = map[string]bool{
	PaymentPending: true, PaymentPaid: true, PaymentFailed: true, PaymentRefunded: true,
}

var orderStatuses = map[string]bool{
	OrderPending: true, OrderConfirmed: true, OrderShipped: true,
	OrderDelivered: true, OrderCancelled: true,
}

func ValidPaymentStatus(s string) bool { return paymentStatuses[s] }

func ValidOrderStatus(s string) bool { return orderStatuses[s] }
