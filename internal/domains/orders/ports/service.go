package ports

import (
	"context"

	"github.com/shopora/shop-api/internal/domains/orders/domain"
)

// Service exposes order lifecycle use cases to adapters.
type Service interface {
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, status *domain.Status) ([]*domain.Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	Summary(ctx context.Context) (Summary, error)
}
