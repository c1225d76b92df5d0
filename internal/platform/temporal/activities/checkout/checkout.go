package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
	checkoutports "github.com/shopora/shop-api/internal/domains/checkout/ports"
)

const (
	// PlaceOrderActivityName runs the checkout orchestrator for one command.
	PlaceOrderActivityName = "checkout.activities.PlaceOrder"
)

// Activities groups activities that operate on the checkout bounded context.
type Activities struct {
	service checkoutports.Service
}

// NewActivities wires the checkout service into the Temporal activities bundle.
func NewActivities(service checkoutports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder converts the cart into an order and returns the confirmation.
// The underlying service replays idempotent retries, so repeated attempts of
// this activity settle on one order.
func (a *Activities) PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.OrderConfirmation, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "userId", input.UserID)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "userId", input.UserID)
	confirmation, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", confirmation.OrderID, "orderNumber", confirmation.OrderNumber)
	return confirmation, nil
}
