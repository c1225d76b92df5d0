package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ordermemory "github.com/shopora/shop-api/internal/domains/orders/adapters/memory"
	"github.com/shopora/shop-api/internal/domains/orders/domain"
	"github.com/shopora/shop-api/internal/domains/orders/ports"
	usermemory "github.com/shopora/shop-api/internal/domains/users/adapters/memory"
	usersdomain "github.com/shopora/shop-api/internal/domains/users/domain"
)

func placeOrder(t *testing.T, repo *ordermemory.Repository, userID int64, total int64) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(userID, []domain.Line{
		{ProductID: 1, ProductName: "Tee", Quantity: 1, UnitPrice: decimal.NewFromInt(total)},
	}, domain.PaymentCash, domain.ShippingAddress{
		Address:    "12 Main St",
		City:       "Springfield",
		Country:    "US",
		PostalCode: "12345",
		Phone:      "+1-555-0100",
	}, time.Now())
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), order)
	require.NoError(t, err)
	return saved
}

func TestUpdateOrderStatus_Forward(t *testing.T) {
	repo := ordermemory.NewRepository()
	svc := NewService(repo, nil)
	order := placeOrder(t, repo, 7, 10)

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, domain.StatusShipped)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, updated.Status)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, domain.StatusProcessing)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	// The failed transition must not have persisted anything.
	stored, err := svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, stored.Status)
}

func TestListOrders_FilterByStatus(t *testing.T) {
	repo := ordermemory.NewRepository()
	svc := NewService(repo, nil)
	placeOrder(t, repo, 7, 10)
	shipped := placeOrder(t, repo, 7, 20)
	_, err := svc.UpdateOrderStatus(context.Background(), shipped.ID, domain.StatusShipped)
	require.NoError(t, err)

	all, err := svc.ListOrders(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	status := domain.StatusShipped
	filtered, err := svc.ListOrders(context.Background(), &status)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, shipped.ID, filtered[0].ID)
}

func TestListUserOrders(t *testing.T) {
	repo := ordermemory.NewRepository()
	svc := NewService(repo, nil)
	placeOrder(t, repo, 7, 10)
	placeOrder(t, repo, 8, 20)

	mine, err := svc.ListUserOrders(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, int64(7), mine[0].UserID)
}

func TestDeleteOrder_DetachesFromOwner(t *testing.T) {
	users := usermemory.NewRepository()
	owner, err := usersdomain.NewUser(0, "Ada", "ada@example.com", "hunter2-long")
	require.NoError(t, err)
	saved, err := users.Save(context.Background(), owner)
	require.NoError(t, err)

	repo := ordermemory.NewRepository()
	svc := NewService(repo, users)
	order := placeOrder(t, repo, saved.ID, 10)
	require.NoError(t, users.AttachOrder(context.Background(), saved.ID, order.ID))

	require.NoError(t, svc.DeleteOrder(context.Background(), order.ID))

	_, err = svc.GetOrderByID(context.Background(), order.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)

	refreshed, err := users.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Empty(t, refreshed.Orders)
}

func TestSummary_AggregatesRevenue(t *testing.T) {
	repo := ordermemory.NewRepository()
	svc := NewService(repo, nil)
	placeOrder(t, repo, 7, 10)
	placeOrder(t, repo, 7, 30)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.Orders)
	require.True(t, summary.Revenue.Equal(decimal.NewFromInt(40)))
	require.True(t, summary.AverageValue.Equal(decimal.NewFromInt(20)))
}
