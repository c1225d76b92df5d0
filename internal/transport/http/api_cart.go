package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	carttypes "github.com/shopora/shop-api/internal/domains/cart/application/types"
	cartports "github.com/shopora/shop-api/internal/domains/cart/ports"
)

// CartAPI exposes the per-user cart over HTTP. The user identity comes from
// the RequireUser middleware.
type CartAPI struct {
	service cartports.Service
}

// NewCartAPI wires dependencies.
func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// CartLine is the transport shape of one cart line.
type CartLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Cart is the transport shape of one user's cart.
type Cart struct {
	UserID int64           `json:"userId"`
	Lines  []CartLine      `json:"lines"`
	Total  decimal.Decimal `json:"total"`
}

// AddItemRequest is one requested addition.
type AddItemRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Size      string `json:"size,omitempty"`
}

// UpdateItemRequest resizes and/or requantifies one existing line.
type UpdateItemRequest struct {
	ProductID   int64   `json:"productId" binding:"required"`
	CurrentSize string  `json:"currentSize,omitempty"`
	NewSize     *string `json:"newSize,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
}

// Get /v1/cart
// Read the current cart
func (api *CartAPI) GetCart(c *gin.Context) {
	view, err := api.service.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		cartResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCartView(view))
}

// Post /v1/cart/items
// Add items to the cart; the batch applies all-or-nothing
func (api *CartAPI) AddItems(c *gin.Context) {
	var payload []AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := carttypes.AddInput{UserID: currentUserID(c)}
	for _, item := range payload {
		input.Items = append(input.Items, carttypes.AddItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}
	view, err := api.service.Add(c.Request.Context(), input)
	if err != nil {
		cartResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCartView(view))
}

// Patch /v1/cart/items
// Update existing cart lines; the batch applies all-or-nothing
func (api *CartAPI) UpdateItems(c *gin.Context) {
	var payload []UpdateItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := carttypes.UpdateInput{UserID: currentUserID(c)}
	for _, item := range payload {
		input.Changes = append(input.Changes, carttypes.UpdateChange{
			ProductID:   item.ProductID,
			CurrentSize: item.CurrentSize,
			NewSize:     item.NewSize,
			Quantity:    item.Quantity,
		})
	}
	view, err := api.service.Update(c.Request.Context(), input)
	if err != nil {
		cartResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCartView(view))
}

// Delete /v1/cart/items/:productId
// Remove the line matching (product, size)
func (api *CartAPI) RemoveItem(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	input := carttypes.RemoveInput{
		UserID:    currentUserID(c),
		ProductID: productID,
		Size:      c.Query("size"),
	}
	view, err := api.service.Remove(c.Request.Context(), input)
	if err != nil {
		cartResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCartView(view))
}

func fromCartView(view *carttypes.CartView) Cart {
	if view == nil {
		return Cart{Lines: []CartLine{}, Total: decimal.Zero}
	}
	cart := Cart{UserID: view.UserID, Lines: make([]CartLine, 0, len(view.Lines)), Total: view.Total}
	for _, line := range view.Lines {
		cart.Lines = append(cart.Lines, CartLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	return cart
}
