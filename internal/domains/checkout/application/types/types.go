package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingInput carries the delivery destination as submitted by the client.
type ShippingInput struct {
	Address    string
	City       string
	Country    string
	PostalCode string
	Phone      string
}

// PlaceOrderInput is the checkout command. IdempotencyKey is optional; when
// present, retries with the same key replay the original confirmation.
type PlaceOrderInput struct {
	UserID         int64
	Method         string
	Shipping       ShippingInput
	IdempotencyKey string
}

// QuoteLine is one cart line validated and priced against the live catalog.
type QuoteLine struct {
	ProductID int64
	Name      string
	Size      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Quote prices the cart without committing stock or payment.
type Quote struct {
	UserID int64
	Lines  []QuoteLine
	Total  decimal.Decimal
}

// OrderConfirmation is the receipt handed back after a committed checkout.
// Replayed marks confirmations served from the idempotency store.
type OrderConfirmation struct {
	OrderID          int64
	OrderNumber      string
	Total            decimal.Decimal
	Status           string
	PlacedAt         time.Time
	PaymentReference string
	Replayed         bool
}
