package application

import (
	"errors"
	"fmt"

	"github.com/shopora/shop-api/internal/domains/cart/domain"
	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
)

// ErrInvalidInput signals the request violated a cart or inventory invariant.
var ErrInvalidInput = errors.New("invalid cart input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, catalogdomain.ErrInvalidQuantity) ||
		errors.Is(err, catalogdomain.ErrSizeRequired) ||
		errors.Is(err, catalogdomain.ErrUnknownSize) ||
		errors.Is(err, catalogdomain.ErrInsufficientStock) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
