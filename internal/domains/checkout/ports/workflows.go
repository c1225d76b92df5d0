package ports

import (
	"context"

	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
)

// WorkflowOrchestrator exposes durable workflow operations required by the checkout bounded context.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.OrderConfirmation, error)
}
