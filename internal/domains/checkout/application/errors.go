package application

import (
	"errors"
	"fmt"

	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
	ordersdomain "github.com/shopora/shop-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the checkout command violated an invariant.
	ErrInvalidInput = errors.New("invalid checkout input")
	// ErrEmptyCart rejects checkout of a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAuthorizationFailed signals the payment provider declined the charge.
	ErrAuthorizationFailed = errors.New("payment authorization failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ordersdomain.ErrInvalidPaymentMethod) ||
		errors.Is(err, ordersdomain.ErrIncompleteShippingAddress) ||
		errors.Is(err, ordersdomain.ErrInvalidUserID) ||
		errors.Is(err, catalogdomain.ErrSizeRequired) ||
		errors.Is(err, catalogdomain.ErrUnknownSize) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
