package ports

import (
	"context"

	"github.com/shopora/shop-api/internal/domains/cart/domain"
)

// Repository persists one cart per user. Loading a user without a stored cart
// yields an empty aggregate, never an error.
type Repository interface {
	GetByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	// Save replaces the stored cart wholesale; adapters must apply the whole
	// snapshot atomically so concurrent mutations of one cart serialize.
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, userID int64) error
}
