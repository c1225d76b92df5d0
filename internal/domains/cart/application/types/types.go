package types

import "github.com/shopspring/decimal"

// AddItem is one requested (product, size, quantity) addition.
type AddItem struct {
	ProductID int64
	Quantity  int
	Size      string
}

// AddInput carries a batch of additions applied all-or-nothing.
type AddInput struct {
	UserID int64
	Items  []AddItem
}

// UpdateChange resizes and/or requantifies one existing line. NewSize and
// Quantity are optional; absent fields keep the line's current value.
type UpdateChange struct {
	ProductID   int64
	CurrentSize string
	NewSize     *string
	Quantity    *int
}

// UpdateInput carries a batch of changes applied all-or-nothing.
type UpdateInput struct {
	UserID  int64
	Changes []UpdateChange
}

// RemoveInput deletes the line(s) matching (product, size). An empty size
// matches the size-less line.
type RemoveInput struct {
	UserID    int64
	ProductID int64
	Size      string
}

// LineView is a cart line populated with product details for display.
type LineView struct {
	ProductID int64
	Name      string
	Size      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// CartView is the display shape of one user's cart.
type CartView struct {
	UserID int64
	Lines  []LineView
	Total  decimal.Decimal
}
