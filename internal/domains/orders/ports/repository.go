package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/shopora/shop-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateNumber reports a collision on the human-readable order
	// number. Callers regenerate the number and retry the save.
	ErrDuplicateNumber = errors.New("order number already taken")
)

// Summary is the read-only revenue aggregate computed by the store, never by
// shared mutable counters.
type Summary struct {
	Orders       int64
	Revenue      decimal.Decimal
	AverageValue decimal.Decimal
}

// Repository persists orders.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	// List returns orders, optionally filtered by status.
	List(ctx context.Context, status *domain.Status) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	Summary(ctx context.Context) (Summary, error)
}
