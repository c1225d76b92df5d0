package ports

import (
	"context"

	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
)

// Service exposes the checkout use cases to adapters.
type Service interface {
	// Quote validates and prices the cart without committing anything.
	Quote(ctx context.Context, userID int64) (*checkouttypes.Quote, error)
	// PlaceOrder converts the cart into an order: validate, authorize payment,
	// commit stock, persist the receipt, clear the cart.
	PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.OrderConfirmation, error)
}
