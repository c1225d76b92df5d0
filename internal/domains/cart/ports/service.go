package ports

import (
	"context"

	carttypes "github.com/shopora/shop-api/internal/domains/cart/application/types"
)

// Service exposes the cart use cases to adapters.
type Service interface {
	Get(ctx context.Context, userID int64) (*carttypes.CartView, error)
	Add(ctx context.Context, input carttypes.AddInput) (*carttypes.CartView, error)
	Update(ctx context.Context, input carttypes.UpdateInput) (*carttypes.CartView, error)
	Remove(ctx context.Context, input carttypes.RemoveInput) (*carttypes.CartView, error)
}
