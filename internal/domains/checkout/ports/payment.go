package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// AuthorizationRequest asks the payment provider to approve a charge before
// any stock is committed.
type AuthorizationRequest struct {
	UserID   int64
	Amount   decimal.Decimal
	Currency string
	Metadata map[string]string
}

// Authorization is the provider's verdict. Reference identifies the charge on
// the provider side and is stored alongside the order.
type Authorization struct {
	Reference string
	Approved  bool
}

// PaymentAuthorizer fronts the card payment provider. Cash checkouts never
// reach it.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, req AuthorizationRequest) (*Authorization, error)
}
