package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validShipping() ShippingAddress {
	return ShippingAddress{
		Address:    "12 Main St",
		City:       "Springfield",
		Country:    "US",
		PostalCode: "12345",
		Phone:      "+1-555-0100",
	}
}

func TestNewOrder_ComputesTotals(t *testing.T) {
	lines := []Line{
		{ProductID: 1, ProductName: "Tee", Size: "M", Quantity: 2, UnitPrice: decimal.NewFromInt(25)},
		{ProductID: 2, ProductName: "Mug", Quantity: 1, UnitPrice: decimal.RequireFromString("8.50")},
	}
	order, err := NewOrder(7, lines, PaymentCash, validShipping(), time.Now())
	require.NoError(t, err)

	require.Equal(t, StatusProcessing, order.Status)
	require.True(t, order.Lines[0].Subtotal.Equal(decimal.NewFromInt(50)))
	require.True(t, order.Lines[1].Subtotal.Equal(decimal.RequireFromString("8.50")))
	require.True(t, order.Total.Equal(decimal.RequireFromString("58.50")))
	require.True(t, strings.HasPrefix(order.Number, "ORD-"))
}

func TestNewOrder_Invalid(t *testing.T) {
	lines := []Line{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}}

	_, err := NewOrder(0, lines, PaymentCash, validShipping(), time.Now())
	require.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewOrder(7, lines, PaymentMethod("visa"), validShipping(), time.Now())
	require.ErrorIs(t, err, ErrInvalidPaymentMethod)

	incomplete := validShipping()
	incomplete.City = " "
	_, err = NewOrder(7, lines, PaymentCash, incomplete, time.Now())
	require.ErrorIs(t, err, ErrIncompleteShippingAddress)

	_, err = NewOrder(7, nil, PaymentCash, validShipping(), time.Now())
	require.ErrorIs(t, err, ErrNoLines)

	_, err = NewOrder(7, []Line{{ProductID: 1, Quantity: 0}}, PaymentCash, validShipping(), time.Now())
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateStatus_ForwardOnly(t *testing.T) {
	lines := []Line{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}}
	order, err := NewOrder(7, lines, PaymentCard, validShipping(), time.Now())
	require.NoError(t, err)

	require.NoError(t, order.UpdateStatus(StatusShipped))
	require.NoError(t, order.UpdateStatus(StatusDelivered))

	err = order.UpdateStatus(StatusProcessing)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Contains(t, err.Error(), "delivered -> processing")
}

func TestUpdateStatus_CancelOnlyFromProcessing(t *testing.T) {
	lines := []Line{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}}
	order, err := NewOrder(7, lines, PaymentCard, validShipping(), time.Now())
	require.NoError(t, err)

	require.NoError(t, order.UpdateStatus(StatusCancelled))

	err = order.UpdateStatus(StatusShipped)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_RejectsUnknown(t *testing.T) {
	lines := []Line{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}}
	order, err := NewOrder(7, lines, PaymentCash, validShipping(), time.Now())
	require.NoError(t, err)

	require.ErrorIs(t, order.UpdateStatus(Status("lost")), ErrInvalidStatus)
}
