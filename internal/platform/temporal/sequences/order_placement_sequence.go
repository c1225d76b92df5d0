package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
	checkoutactivities "github.com/shopora/shop-api/internal/platform/temporal/activities/checkout"
)

// RunOrderPlacementSequence executes the ordered set of activities needed to
// place an order. The activity is idempotent when the command carries an
// idempotency key, so retries cannot double-charge or double-reserve.
func RunOrderPlacementSequence(ctx workflow.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.OrderConfirmation, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "userId", input.UserID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var confirmation checkouttypes.OrderConfirmation
	err := workflow.ExecuteActivity(ctx, checkoutactivities.PlaceOrderActivityName, input).Get(ctx, &confirmation)
	if err != nil {
		logger.Error("order placement sequence failed", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", confirmation.OrderID)
	return &confirmation, nil
}
