package checkout

import (
	"go.temporal.io/sdk/workflow"

	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
	"github.com/shopora/shop-api/internal/platform/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "checkout.workflows.OrderPlacement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing checkout workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place an order.
type OrderPlacementWorkflowInput struct {
	Command checkouttypes.PlaceOrderInput
	TraceID string
}

// OrderPlacementWorkflow orchestrates the activities needed to convert a cart into an order.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*checkouttypes.OrderConfirmation, error) {
	logger := workflow.GetLogger(ctx)
	userID := input.Command.UserID
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "userId", userID)...)
	confirmation, err := sequences.RunOrderPlacementSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "userId", userID, "error", err)...)
		return nil, err
	}
	if confirmation != nil {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", confirmation.OrderID, "orderNumber", confirmation.OrderNumber)...)
	} else {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID)...)
	}
	return confirmation, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
