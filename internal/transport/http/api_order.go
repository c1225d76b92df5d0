package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	ordersdomain "github.com/shopora/shop-api/internal/domains/orders/domain"
	ordersports "github.com/shopora/shop-api/internal/domains/orders/ports"
)

// OrderAPI exposes order lifecycle management over HTTP.
type OrderAPI struct {
	service ordersports.Service
}

// NewOrderAPI wires dependencies.
func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// OrderLine is the transport shape of one immutable receipt entry.
type OrderLine struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Size        string          `json:"size,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order is the transport shape of a committed order.
type Order struct {
	ID       int64           `json:"id"`
	Number   string          `json:"number"`
	UserID   int64           `json:"userId"`
	Lines    []OrderLine     `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	Method   string          `json:"method"`
	Shipping ShippingAddressRequest `json:"shipping"`
	Status   string          `json:"status"`
	PlacedAt time.Time       `json:"placedAt"`
}

// UpdateStatusRequest moves the order lifecycle forward.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Get /v1/orders/:orderId
// Find an order by ID
func (api *OrderAPI) GetOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		orderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrder(order))
}

// Get /v1/orders
// List orders, optionally filtered by status
func (api *OrderAPI) ListOrders(c *gin.Context) {
	var status *ordersdomain.Status
	if raw := c.Query("status"); raw != "" {
		value := ordersdomain.Status(raw)
		status = &value
	}
	orders, err := api.service.ListOrders(c.Request.Context(), status)
	if err != nil {
		orderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrders(orders))
}

// Get /v1/orders/mine
// List the authenticated user's orders
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	orders, err := api.service.ListUserOrders(c.Request.Context(), currentUserID(c))
	if err != nil {
		orderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrders(orders))
}

// Patch /v1/orders/:orderId/status
// Move the order lifecycle forward
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), id, ordersdomain.Status(payload.Status))
	if err != nil {
		orderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrder(order))
}

// Delete /v1/orders/:orderId
// Remove an order and detach it from its owner
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		orderResponder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/orders/summary
// Read the revenue aggregate
func (api *OrderAPI) Summary(c *gin.Context) {
	summary, err := api.service.Summary(c.Request.Context())
	if err != nil {
		orderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":       summary.Orders,
		"revenue":      summary.Revenue,
		"averageValue": summary.AverageValue,
	})
}

func fromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	payload := Order{
		ID:     order.ID,
		Number: order.Number,
		UserID: order.UserID,
		Lines:  make([]OrderLine, 0, len(order.Lines)),
		Total:  order.Total,
		Method: string(order.Method),
		Shipping: ShippingAddressRequest{
			Address:    order.Shipping.Address,
			City:       order.Shipping.City,
			Country:    order.Shipping.Country,
			PostalCode: order.Shipping.PostalCode,
			Phone:      order.Shipping.Phone,
		},
		Status:   string(order.Status),
		PlacedAt: order.PlacedAt,
	}
	for _, line := range order.Lines {
		payload.Lines = append(payload.Lines, OrderLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}
	return payload
}

func fromDomainOrders(orders []*ordersdomain.Order) []Order {
	list := make([]Order, 0, len(orders))
	for _, order := range orders {
		list = append(list, fromDomainOrder(order))
	}
	return list
}
