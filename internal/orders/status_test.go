package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidPaymentStatus(t *testing.T) {
	for _, s := range []string{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded} {
		require.True(t, ValidPaymentStatus(s), s)
	}
	require.False(t, ValidPaymentStatus(""))
	require.False(t, ValidPaymentStatus("Paid"))
	require.False(t, ValidPaymentStatus("settled"))
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled} {
		require.True(t, ValidOrderStatus(s), s)
	}
	require.False(t, ValidOrderStatus(""))
	require.False(t, ValidOrderStatus("done"))
}
