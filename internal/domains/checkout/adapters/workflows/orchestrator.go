package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
	"github.com/shopora/shop-api/internal/domains/checkout/ports"
	checkoutworkflows "github.com/shopora/shop-api/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalCheckoutWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineCheckoutWorkflows)(nil)
)

// TemporalCheckoutWorkflows starts checkout workflows on a Temporal cluster.
type TemporalCheckoutWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalCheckoutWorkflows wires a Temporal client into the orchestrator.
func NewTemporalCheckoutWorkflows(c client.Client) *TemporalCheckoutWorkflows {
	return &TemporalCheckoutWorkflows{client: c, taskQueue: checkoutworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the Temporal workflow that converts a cart into an order.
func (o *TemporalCheckoutWorkflows) PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.OrderConfirmation, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal checkout workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildOrderPlacementWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.OrderPlacementWorkflow,
		checkoutworkflows.OrderPlacementWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var confirmation checkouttypes.OrderConfirmation
			if err := existingRun.Get(ctx, &confirmation); err != nil {
				return nil, err
			}
			return &confirmation, nil
		}
		return nil, err
	}
	var confirmation checkouttypes.OrderConfirmation
	if err := run.Get(ctx, &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

// InlineCheckoutWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineCheckoutWorkflows struct {
	service ports.Service
}

// NewInlineCheckoutWorkflows wraps the checkout service for synchronous execution.
func NewInlineCheckoutWorkflows(service ports.Service) *InlineCheckoutWorkflows {
	return &InlineCheckoutWorkflows{service: service}
}

// PlaceOrder delegates to the application service without durable orchestration.
func (o *InlineCheckoutWorkflows) PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.OrderConfirmation, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline checkout workflows not configured")
	}
	return o.service.PlaceOrder(ctx, input)
}

func buildOrderPlacementWorkflowID(input checkouttypes.PlaceOrderInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("order-placement-%d-%s", input.UserID, traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// Use the first 16 hex chars to keep workflow IDs readable while remaining deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
