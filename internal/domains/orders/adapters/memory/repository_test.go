package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shopora/shop-api/internal/domains/orders/domain"
	"github.com/shopora/shop-api/internal/domains/orders/ports"
)

func sampleOrder(t *testing.T) *domain.Order {
	t.Helper()
	shipping := domain.ShippingAddress{
		Address:    "12 Main St",
		City:       "Springfield",
		Country:    "US",
		PostalCode: "12345",
		Phone:      "+1-555-0100",
	}
	lines := []domain.Line{{ProductID: 1, ProductName: "Tee", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}}
	order, err := domain.NewOrder(7, lines, domain.PaymentCash, shipping, time.Now())
	require.NoError(t, err)
	return order
}

func TestSave_RejectsDuplicateNumber(t *testing.T) {
	repo := NewRepository()
	first := sampleOrder(t)
	saved, err := repo.Save(context.Background(), first)
	require.NoError(t, err)

	second := sampleOrder(t)
	second.Number = saved.Number
	_, err = repo.Save(context.Background(), second)
	require.ErrorIs(t, err, ports.ErrDuplicateNumber)
}

func TestSave_UpdateKeepsOwnNumber(t *testing.T) {
	repo := NewRepository()
	saved, err := repo.Save(context.Background(), sampleOrder(t))
	require.NoError(t, err)

	require.NoError(t, saved.UpdateStatus(domain.StatusShipped))
	updated, err := repo.Save(context.Background(), saved)
	require.NoError(t, err)
	require.Equal(t, saved.Number, updated.Number)
	require.Equal(t, domain.StatusShipped, updated.Status)
}
