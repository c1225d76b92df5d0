package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
	checkoutports "github.com/shopora/shop-api/internal/domains/checkout/ports"
)

// IdempotencyKeyHeader lets clients retry checkout safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutAPI wires HTTP transport with the checkout orchestrator and workflows.
type CheckoutAPI struct {
	service   checkoutports.Service
	workflows checkoutports.WorkflowOrchestrator
}

// NewCheckoutAPI creates a CheckoutAPI backed by the provided service.
func NewCheckoutAPI(service checkoutports.Service, workflows checkoutports.WorkflowOrchestrator) CheckoutAPI {
	return CheckoutAPI{service: service, workflows: workflows}
}

// ShippingAddressRequest carries the delivery destination.
type ShippingAddressRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	Country    string `json:"country" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
}

// PlaceOrderRequest is the checkout command payload.
type PlaceOrderRequest struct {
	Method   string                 `json:"method" binding:"required"`
	Shipping ShippingAddressRequest `json:"shipping" binding:"required"`
}

// QuoteLineResponse is one validated and priced cart line.
type QuoteLineResponse struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// QuoteResponse prices the cart without committing anything.
type QuoteResponse struct {
	UserID int64               `json:"userId"`
	Lines  []QuoteLineResponse `json:"lines"`
	Total  decimal.Decimal     `json:"total"`
}

// OrderConfirmationResponse is the committed checkout receipt.
type OrderConfirmationResponse struct {
	OrderID          int64           `json:"orderId"`
	OrderNumber      string          `json:"orderNumber"`
	Total            decimal.Decimal `json:"total"`
	Status           string          `json:"status"`
	PlacedAt         time.Time       `json:"placedAt"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	Replayed         bool            `json:"replayed,omitempty"`
}

// Get /v1/checkout/quote
// Validate and price the cart
func (api *CheckoutAPI) Quote(c *gin.Context) {
	quote, err := api.service.Quote(c.Request.Context(), currentUserID(c))
	if err != nil {
		checkoutResponder.RespondError(c, err)
		return
	}
	response := QuoteResponse{UserID: quote.UserID, Lines: make([]QuoteLineResponse, 0, len(quote.Lines)), Total: quote.Total}
	for _, line := range quote.Lines {
		response.Lines = append(response.Lines, QuoteLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Post /v1/checkout/order
// Convert the cart into an order
func (api *CheckoutAPI) PlaceOrder(c *gin.Context) {
	var payload PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := checkouttypes.PlaceOrderInput{
		UserID: currentUserID(c),
		Method: payload.Method,
		Shipping: checkouttypes.ShippingInput{
			Address:    payload.Shipping.Address,
			City:       payload.Shipping.City,
			Country:    payload.Shipping.Country,
			PostalCode: payload.Shipping.PostalCode,
			Phone:      payload.Shipping.Phone,
		},
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	}
	confirmation, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		checkoutResponder.RespondError(c, err)
		return
	}
	status := http.StatusCreated
	if confirmation.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, OrderConfirmationResponse{
		OrderID:          confirmation.OrderID,
		OrderNumber:      confirmation.OrderNumber,
		Total:            confirmation.Total,
		Status:           confirmation.Status,
		PlacedAt:         confirmation.PlacedAt,
		PaymentReference: confirmation.PaymentReference,
		Replayed:         confirmation.Replayed,
	})
}

func (api *CheckoutAPI) placeOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.OrderConfirmation, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}
